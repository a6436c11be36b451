package util

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateImage 校验头像文件的扩展名与真实内容类型，返回检测到的 MIME
func ValidateImage(filename string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrInvalidImageExt
	}

	mtype, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return mtype.String(), fmt.Errorf("invalid file type: %s", mtype.String())
	}
	return mtype.String(), nil
}
