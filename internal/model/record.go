package model

// Attachment は Airtable の添付ファイルフィールドの1要素
type Attachment struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// Collaborator は Airtable の "Created By" などのユーザーフィールド
type Collaborator struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// firstID は リンクフィールドの先頭 ID を返す（空なら ""）
func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
