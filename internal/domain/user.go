package domain

// User is identified by phone and authenticated with a short-lived numeric
// SMS code. The expiry window lives in the auth service, not in the schema.
type User struct {
	ID            int64  `db:"id" json:"id"`
	Phone         string `db:"phone" json:"phone"`
	LastSmsCode   int64  `db:"last_sms_code" json:"-"`
	LastSmsCodeAt string `db:"last_sms_code_at" json:"-"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
	UpdatedAt     string `db:"updated_at" json:"updatedAt"`
}
