package model

// ProjectStatuses はプロジェクトステータスの選択肢
var ProjectStatuses = []string{
	"Need Analysis",
	"Negotiation",
	"Closed Won",
	"Closed Lost",
}

// Project は Projects テーブルのレコード
type Project struct {
	ID          string        `json:"id"`
	CreatedTime string        `json:"createdTime,omitempty"`
	Fields      ProjectFields `json:"fields"`
}

// ProjectFields は Project のフィールド。日付は YYYY-MM-DD。
type ProjectFields struct {
	Name        string   `json:"Project Name,omitempty"`
	Status      string   `json:"Project Status,omitempty"`
	StartDate   string   `json:"Start Date,omitempty"`
	EndDate     string   `json:"End Date,omitempty"`
	Account     []string `json:"Account,omitempty"`
	Value       *float64 `json:"Project Value,omitempty"`
	Description string   `json:"Project Description,omitempty"`
	Owner       []string `json:"Project Owner,omitempty"`
	Updates     []string `json:"Updates,omitempty"`
}

// AccountID は紐づくアカウントの ID を返す
func (p *Project) AccountID() string {
	return firstID(p.Fields.Account)
}

// DisplayName はプロジェクト名、未設定なら ID を返す
func (p *Project) DisplayName() string {
	if p.Fields.Name != "" {
		return p.Fields.Name
	}
	return p.ID
}
