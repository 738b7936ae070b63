package extractor

// 实体标签
const (
	LabelOrg   = "ORG"   // 组织（公司或教育机构）
	LabelGPE   = "GPE"   // 地理政治实体
	LabelDate  = "DATE"  // 日期或时间段
	LabelTitle = "TITLE" // 职位行
)

// 粗粒度词性标记
const (
	POSNoun       = "NOUN"
	POSProperNoun = "PROPN"
)

// Span 文本中识别出的一段实体
type Span struct {
	Label string
	Text  string
}

// Token 带词性的单词
type Token struct {
	Text string
	POS  string
}

// Annotation 一次标注的全部产出
type Annotation struct {
	Spans  []Span
	Tokens []Token
}

// Recognizer 文本标注器, 产出实体片段与词性标记
type Recognizer interface {
	Annotate(text string) (*Annotation, error)
}
