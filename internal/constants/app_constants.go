package constants

const (
	// DefaultTopK 匹配查询的默认返回数量
	DefaultTopK = 5

	// MaxJobDescriptionLength 职位描述的最大长度（字符）
	MaxJobDescriptionLength = 50000

	// QualityReportTopK 匹配质量汇总的默认取样数量
	QualityReportTopK = 3
)

// AllowedTopK 匹配查询允许的top_k取值
var AllowedTopK = map[int]bool{
	3:  true,
	5:  true,
	10: true,
}
