package domain

import "time"

// IdempotencyLog records the result of a keyed top-up so a retried request
// replays it instead of crediting twice.
type IdempotencyLog struct {
	Key          string    `json:"key"` // Format: "topup:<account_id>:<client key>"
	ResponseJSON []byte    `json:"response_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// BuildTopupIdempotencyKey scopes a client supplied key to one account.
func BuildTopupIdempotencyKey(accountID, key string) string {
	return "topup:" + accountID + ":" + key
}
