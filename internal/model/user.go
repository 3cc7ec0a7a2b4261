package model

// User は Users テーブルのレコード。secret_key でログインする。
type User struct {
	ID          string     `json:"id"`
	CreatedTime string     `json:"createdTime,omitempty"`
	Fields      UserFields `json:"fields"`
}

// UserFields は User のフィールド
type UserFields struct {
	Name      string   `json:"User Name,omitempty"`
	SecretKey string   `json:"secret_key,omitempty"`
	Accounts  []string `json:"Accounts,omitempty"`
	Projects  []string `json:"Projects,omitempty"`
	Updates   []string `json:"Updates,omitempty"`
}

// DefaultUserName は User Name 未設定時の表示名
const DefaultUserName = "User"

// DisplayName は表示名を返す
func (u *User) DisplayName() string {
	if u.Fields.Name != "" {
		return u.Fields.Name
	}
	return DefaultUserName
}
