package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// upload prefixes, one per file-bearing field
const (
	DirCourseThumbnails = "course_thumbnails"
	DirLessonVideos     = "lessons"
	DirProfilePics      = "profile_pics"
)

const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}
)
