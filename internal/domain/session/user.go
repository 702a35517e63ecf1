package session

// User is the profile returned by the auth service for the current token.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	StoreID     int64  `json:"store_id,omitempty"`
	DomainStore string `json:"domain_store"`
}

// DisplayName returns the name shown in the dashboard header
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// Publication is a sales channel the store publishes to.
type Publication struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ChannelID int64  `json:"channel_id"`
	Channel   string `json:"channel,omitempty"`
}
