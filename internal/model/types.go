package model

type User struct {
	ID        string
	Email     string
	PassHash  string
	Confirmed bool
	CreatedAt int64
}

// SessionToken is the server-side half of a session: one row per issued
// JWT, keyed by the token's jti, so sign-out can revoke a token before
// it expires.
type SessionToken struct {
	ID        string // jti
	UserID    string
	CreatedAt int64
	ExpiresAt int64
	Revoked   bool
}

type Confirmation struct {
	Code      string
	UserID    string
	CreatedAt int64
}

type Screenshot struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	CreatedAt   int64  `json:"created_at"`
}

type Album struct {
	ID        string
	OwnerID   string
	Title     string
	CreatedAt int64
}

// ScreenshotView is the projection handed to templates and the JSON
// API: the persisted record plus URLs derived from the blob store at
// render time. Derived fields are never written back.
type ScreenshotView struct {
	Screenshot
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
}

// AlbumView carries the query-time screenshot count. The count is
// always recomputed from the link table, never stored on the album.
type AlbumView struct {
	Album
	ScreenshotCount int
}
