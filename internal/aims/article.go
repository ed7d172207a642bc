package aims

// Article is the AIMS-side record a label renders: a space, a person or a room.
type Article struct {
	ArticleID   string            `json:"articleId"`
	ArticleName string            `json:"articleName"`
	NFCURL      string            `json:"nfcUrl"`
	Data        map[string]string `json:"data,omitempty"`
}

// Credentials identify an AIMS tenant account.
type Credentials struct {
	BaseURL  string
	Company  string
	Username string
	Password string
}

// Complete reports whether every field needed to talk to AIMS is set.
func (c Credentials) Complete() bool {
	return c.BaseURL != "" && c.Company != "" && c.Username != "" && c.Password != ""
}

func (c Credentials) cacheKey() string {
	return c.BaseURL + "|" + c.Company + "|" + c.Username
}
