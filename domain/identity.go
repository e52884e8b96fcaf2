package domain

// Identity is the verified caller produced by the auth middleware.
type Identity struct {
	Subject string
	Role    string
	Token   string
}

// Filter is an equality match on column names, e.g. Filter{"email": "a@b.c"}.
// A nil or empty filter matches every row.
type Filter map[string]any
