package model

// Word is a target word assigned to a session.
type Word struct {
	ID   string `json:"id"`
	Text string `json:"word"`
}

// LetterEvent is one keystroke record.
type LetterEvent struct {
	Letter    string `json:"letter"`
	IsError   bool   `json:"isError"`
	Position  int    `json:"position"`
	TimeTaken int64  `json:"timeTaken"`
}

// LetterBatch groups the letter events typed for one word.
type LetterBatch struct {
	WordID    string        `json:"wordId"`
	Letters   []LetterEvent `json:"letters"`
	SessionID string        `json:"sessionId"`
}

// FinalStats is the authoritative result of a session.
type FinalStats struct {
	CorrectWords   int  `json:"correctWords"`
	IncorrectWords int  `json:"incorrectWords"`
	CorrectChars   int  `json:"correctChars"`
	IncorrectChars int  `json:"incorrectChars"`
	Accuracy       int  `json:"accuracy"`
	IsCompleted    bool `json:"isCompleted"`
	TotalWords     int  `json:"totalWords"`
	WrittenWords   int  `json:"writtenWords"`
}

// User is the authenticated account.
type User struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	CreatedAt string        `json:"createdAt"`
	Progress  *UserProgress `json:"progress,omitempty"`
}

// UserProgress holds lifetime totals attached to a user.
type UserProgress struct {
	TotalCorrectChars   int `json:"totalCorrectChars"`
	TotalIncorrectChars int `json:"totalIncorrectChars"`
	TotalCorrectWords   int `json:"totalCorrectWords"`
	TotalWords          int `json:"totalWords"`
}

// Progress is the server-side progress report for a user.
type Progress struct {
	Stats    ProgressStats     `json:"stats"`
	Sessions []ProgressSession `json:"sessions"`
}

// ProgressStats summarizes all sessions of a user.
type ProgressStats struct {
	AvgAccuracy   float64 `json:"precisionPromedio"`
	TotalErrors   int     `json:"erroresTotales"`
	BestAccuracy  float64 `json:"mejorPrecision"`
	TotalSessions int     `json:"totalSesiones"`
}

// ProgressSession is one entry of the progress history.
type ProgressSession struct {
	Date     string         `json:"fecha"`
	Accuracy float64        `json:"precision"`
	Details  ProgressDetail `json:"detalles"`
}

// ProgressDetail carries per-session error and letter counts.
type ProgressDetail struct {
	Errors  int `json:"erroresEnSesion"`
	Letters int `json:"letrasEnSesion"`
}
