package util

const (
	DateFormat = "2006-01-02"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	// StreakWindowDays 连续学习天数的最大回溯天数，同时也是读取完成事件的条数上限
	StreakWindowDays = 30
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
)
