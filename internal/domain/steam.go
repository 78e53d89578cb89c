package domain

// SteamPlayer is one entry of ISteamUser/GetPlayerSummaries.
type SteamPlayer struct {
	SteamID        string `json:"steamid"`
	PersonaName    string `json:"personaname"`
	ProfileURL     string `json:"profileurl"`
	Avatar         string `json:"avatar"`
	AvatarMedium   string `json:"avatarmedium"`
	AvatarFull     string `json:"avatarfull"`
	PersonaState   int    `json:"personastate"`
	LastLogoff     int64  `json:"lastlogoff"`
	TimeCreated    int64  `json:"timecreated"`
	GameID         string `json:"gameid,omitempty"`
	GameExtraInfo  string `json:"gameextrainfo,omitempty"`
	LocCountryCode string `json:"loccountrycode,omitempty"`
}

// Online reports whether Steam considers the player anything but offline.
func (p SteamPlayer) Online() bool {
	return p.PersonaState != 0
}

// SteamBadge is a single badge from IPlayerService/GetBadges.
type SteamBadge struct {
	BadgeID        int   `json:"badgeid"`
	AppID          int   `json:"appid,omitempty"`
	Level          int   `json:"level"`
	CompletionTime int64 `json:"completion_time"`
	XP             int   `json:"xp"`
	Scarcity       int   `json:"scarcity"`
}

// SteamBadges is the response body of IPlayerService/GetBadges.
type SteamBadges struct {
	Badges                     []SteamBadge `json:"badges"`
	PlayerXP                   int          `json:"player_xp"`
	PlayerLevel                int          `json:"player_level"`
	PlayerXPNeededToLevelUp    int          `json:"player_xp_needed_to_level_up"`
	PlayerXPNeededCurrentLevel int          `json:"player_xp_needed_current_level"`
}

// SteamGame is a single owned game. Playtimes are in minutes.
type SteamGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
	Playtime2Weeks  int    `json:"playtime_2weeks,omitempty"`
	ImgIconURL      string `json:"img_icon_url"`
	RTimeLastPlayed int64  `json:"rtime_last_played"`
}

// SteamGames is the response body of IPlayerService/GetOwnedGames.
type SteamGames struct {
	GameCount int         `json:"game_count"`
	Games     []SteamGame `json:"games"`
}

// SteamSummary is the aggregated result rendered by the Steam card.
type SteamSummary struct {
	User                 SteamPlayer `json:"user"`
	Badges               SteamBadges `json:"badges"`
	Games                SteamGames  `json:"games"`
	RecentGames          []SteamGame `json:"recent_games"`
	TotalPlaytimeMinutes int         `json:"total_playtime_minutes"`
}
