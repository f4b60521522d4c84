package export

// Share texts
const (
	ShareTitle      = "Programação da Semana"
	shareTextPrefix = "Confira a programação para a "
)

// Share is what the native share sheet receives.
type Share struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// SharePayload wraps a rendered preview image for sharing.
func SharePayload(label string, png []byte) Share {
	return Share{
		Title:       ShareTitle,
		Text:        shareTextPrefix + label,
		FileName:    FileName(label, FormatPNG),
		ContentType: contentTypes[FormatPNG],
		Data:        png,
	}
}
