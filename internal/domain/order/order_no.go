package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNo 生成订单号
// 格式: BOS + 下单日期 + 12位随机十六进制
// 示例: BOS20240315A1B2C3D4E5F6
//
// 日期前缀便于人工按天检索,随机部分取自UUIDv4,
// 数据库上仍有唯一索引兜底
func GenerateOrderNo(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BOS" + now.Format("20060102") + random[:12]
}
