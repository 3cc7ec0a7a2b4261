package model

// UpdateTypes は更新種別の選択肢
var UpdateTypes = []string{
	"Call",
	"Email",
	"Online Meeting",
	"Physical Meeting",
	"Meeting",
	"Note",
}

// DefaultUpdateType は種別未指定時の更新種別
const DefaultUpdateType = "Call"

// Update は Updates テーブルのレコード
type Update struct {
	ID          string       `json:"id"`
	CreatedTime string       `json:"createdTime,omitempty"`
	Fields      UpdateFields `json:"fields"`
}

// UpdateFields は Update のフィールド
type UpdateFields struct {
	Project     []string      `json:"Project,omitempty"`
	Date        string        `json:"Date,omitempty"`
	Notes       string        `json:"Notes,omitempty"`
	UpdateType  string        `json:"Update Type,omitempty"`
	Owner       []string      `json:"Update Owner,omitempty"`
	Attachments []Attachment  `json:"Attachments,omitempty"`
	CreatedBy   *Collaborator `json:"Created By,omitempty"` // read-only
}

// ProjectID は更新が属するプロジェクト（Project の先頭要素）を返す
func (u *Update) ProjectID() string {
	return firstID(u.Fields.Project)
}

// OwnerID は更新の作成ユーザー ID を返す
func (u *Update) OwnerID() string {
	return firstID(u.Fields.Owner)
}
