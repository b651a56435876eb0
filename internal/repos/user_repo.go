package repos

import (
	"github.com/jmoiron/sqlx"

	"petstore/internal/domain"
)

// UserRepo manages phone-identified users and their last SMS code.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `
  id, phone,
  COALESCE(last_sms_code,0) AS last_sms_code,
  COALESCE(last_sms_code_at,'') AS last_sms_code_at,
  created_at, updated_at`

type CreateUserParams struct {
	Phone         string
	LastSmsCode   int64
	LastSmsCodeAt string
}

func getUser(q queryer, id int64) (domain.User, error) {
	var u domain.User
	err := q.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return u, mapErr(err)
}

// Create persists a user and returns the materialized row.
func (r *UserRepo) Create(p CreateUserParams) (domain.User, error) {
	var codeAt any
	if p.LastSmsCodeAt != "" {
		codeAt = p.LastSmsCodeAt
	}
	res, err := r.db.Exec(`
	  INSERT INTO users (phone, last_sms_code, last_sms_code_at)
	  VALUES (?, ?, ?)
	`, p.Phone, p.LastSmsCode, codeAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return getUser(r.db, id)
}

func (r *UserRepo) ByPhone(phone string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE phone = ?`, phone)
	return u, mapErr(err)
}

// SetSmsCode stores a fresh code for the phone, creating the user row on
// first contact.
func (r *UserRepo) SetSmsCode(phone string, code int64, codeAt string) error {
	_, err := r.db.Exec(`
	  INSERT INTO users (phone, last_sms_code, last_sms_code_at)
	  VALUES (?, ?, ?)
	  ON CONFLICT(phone) DO UPDATE SET last_sms_code = excluded.last_sms_code,
	                                   last_sms_code_at = excluded.last_sms_code_at
	`, phone, code, codeAt)
	return mapErr(err)
}

func (r *UserRepo) ListAll() ([]domain.User, error) {
	var out []domain.User
	err := r.db.Select(&out, `SELECT `+userCols+` FROM users ORDER BY id`)
	return out, mapErr(err)
}
