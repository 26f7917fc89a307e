package domain

import "time"

// User models an authenticated actor on the platform.
type User struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          RawRole   `json:"role"`
	Avatar        string    `json:"avatar,omitempty"`
	WalletAddress string    `json:"walletAddress,omitempty"`
	IsVerified    bool      `json:"isVerified"`
	CenterName    string    `json:"centerName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
