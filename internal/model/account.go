package model

// AccountTypes はアカウント種別の選択肢
var AccountTypes = []string{
	"Channel Partner",
	"Client",
	"Vendor",
	"Technology Partner",
	"Internal Initiative",
}

// Account は Accounts テーブルのレコード
type Account struct {
	ID          string        `json:"id"`
	CreatedTime string        `json:"createdTime,omitempty"`
	Fields      AccountFields `json:"fields"`
}

// AccountFields は Account のフィールド
type AccountFields struct {
	Name        string   `json:"Account Name,omitempty"`
	Type        string   `json:"Account Type,omitempty"`
	Description string   `json:"Account Description,omitempty"`
	Owner       []string `json:"Account Owner,omitempty"`
	Projects    []string `json:"Projects,omitempty"`
}
