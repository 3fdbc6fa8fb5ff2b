package util

// ClozeBlank 填空占位符
const ClozeBlank = "___"

const (
	NextActionVerbDrill = "verb_drill"
	SessionHeader       = "X-Session-ID"
)
