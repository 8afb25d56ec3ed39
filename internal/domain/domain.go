package domain

import "time"

// Domain is a named shared clipboard. The slug is the document _id.
type Domain struct {
	Slug         string     `bson:"_id"                     json:"domain"`
	PasswordHash string     `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time  `bson:"created_at"              json:"created_at"`
	ExpiresAt    time.Time  `bson:"expires_at"              json:"expires_at"` // TTL index
	Content      string     `bson:"content"                 json:"content"`
	Meta         Meta       `bson:"meta"                    json:"meta"`
	Files        []FileMeta `bson:"files"                   json:"files"`
}

type Meta struct {
	FontSize int    `bson:"font_size" json:"font_size"`
	Color    string `bson:"color"     json:"color"`
	Bold     bool   `bson:"bold"      json:"bold"`
}

func DefaultMeta() Meta {
	return Meta{FontSize: 18, Color: "#111827", Bold: false}
}

// FileMeta describes an attachment; the bytes live in the object store.
type FileMeta struct {
	ID         string    `bson:"id"            json:"id"`
	Name       string    `bson:"name"          json:"name"`
	Size       int64     `bson:"size"          json:"size"`
	Type       string    `bson:"type"          json:"type"`
	URL        *string   `bson:"url,omitempty" json:"url"`
	UploadedAt time.Time `bson:"uploaded_at"   json:"uploaded_at"`
}

// Live reports whether the domain is still readable at now.
func (d *Domain) Live(now time.Time) bool { return now.Before(d.ExpiresAt) }

func (d *Domain) Locked() bool { return d.PasswordHash != "" }

// Public is the client-facing view of a domain.
type Public struct {
	Domain    string     `json:"domain"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Content   string     `json:"content"`
	Meta      Meta       `json:"meta"`
	Files     []FileMeta `json:"files"`
	IsLocked  bool       `json:"is_locked"`
}

func (d *Domain) Public() *Public {
	files := d.Files
	if files == nil {
		files = []FileMeta{}
	}
	return &Public{
		Domain:    d.Slug,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
		Content:   d.Content,
		Meta:      d.Meta,
		Files:     files,
		IsLocked:  d.Locked(),
	}
}

// AccessToken grants access to one password-protected domain until ExpiresAt.
// Domain is a weak reference and may dangle after the domain is swept.
type AccessToken struct {
	Token     string `bson:"_id"    json:"token"`
	Domain    string `bson:"domain" json:"-"`
	// DomainCreatedAt pins the token to one lifetime of the slug; a domain
	// recreated after expiry has a different created_at.
	DomainCreatedAt time.Time `bson:"domain_created_at" json:"-"`
	CreatedAt       time.Time `bson:"created_at"        json:"-"`
	ExpiresAt       time.Time `bson:"expires_at"        json:"expires_at"` // TTL index
}

// IssuedFor reports whether the token was issued for this domain generation.
func (t *AccessToken) IssuedFor(d *Domain) bool {
	return t.Domain == d.Slug && t.DomainCreatedAt.Equal(d.CreatedAt)
}

func (t *AccessToken) Valid(d *Domain, now time.Time) bool {
	return t.IssuedFor(d) && now.Before(t.ExpiresAt)
}

// Contents is the mutable part of a domain, replaced wholesale on update.
type Contents struct {
	Content string
	Meta    Meta
	Files   []FileMeta
}

type UploadRequest struct {
	Name string
	Size int64
	Type string
}

// UploadTicket carries presigned object store URLs for a single attachment.
type UploadTicket struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadURL  string    `json:"upload_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// File converts the ticket into the metadata a client sends back on update.
func (t *UploadTicket) File() FileMeta {
	url := t.URL
	return FileMeta{ID: t.ID, Name: t.Name, Size: t.Size, Type: t.Type, URL: &url, UploadedAt: t.UploadedAt}
}
