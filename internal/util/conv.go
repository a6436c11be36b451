package util

import (
	"strconv"
)

// AtoiOrZero 将字符串转换为整数，解析失败时返回 0
func AtoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
