package entity

// AppProfile holds what is known about a risk user within one application.
// There is exactly one profile per (risk user, app) pair.
type AppProfile struct {
	ID               int64
	RiskUserID       int64 // Owning risk user; repointed on merge.
	App              string
	UID              string // The user's UID inside the reporting app.
	Nickname         string
	RegisterTime     int64 // Unix seconds.
	RegisterIP       string
	GoogleNickname   string
	FacebookNickname string
	LinkedAt         int64 // When this app was first linked to the risk user.
	CreatedAt        int64
	UpdatedAt        int64
}

// Merge overlays the incoming profile's attributes onto p. Only non-empty
// incoming fields overwrite; absent observations never erase what a prior
// event reported.
func (p *AppProfile) Merge(in *AppProfile, now int64) {
	if in.UID != "" {
		p.UID = in.UID
	}
	if in.Nickname != "" {
		p.Nickname = in.Nickname
	}
	if in.RegisterTime != 0 {
		p.RegisterTime = in.RegisterTime
	}
	if in.RegisterIP != "" {
		p.RegisterIP = in.RegisterIP
	}
	if in.GoogleNickname != "" {
		p.GoogleNickname = in.GoogleNickname
	}
	if in.FacebookNickname != "" {
		p.FacebookNickname = in.FacebookNickname
	}
	p.UpdatedAt = now
}
