package tmdb

// ImageBaseURL is the TMDB image CDN root
const ImageBaseURL = "https://image.tmdb.org/t/p"

// PosterURL returns the w500 poster URL for a TMDB image path, or "" when the path is empty
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/w500" + path
}

// BackdropURL returns the full size backdrop URL for a TMDB image path
func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/original" + path
}
