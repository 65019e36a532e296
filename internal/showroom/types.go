package showroom

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Summary mirrors one entry of /api/showroom/games.
type Summary struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Slug                  string `json:"slug"`
	CompanyName           string `json:"companyName"`
	ShortDescription      string `json:"shortDescription"`
	Genre                 string `json:"genre"`
	PublishingTrack       string `json:"publishingTrack"`
	BuildStatus           string `json:"buildStatus"`
	GameLogoURL           string `json:"gameLogoUrl"`
	CoverArtURL           string `json:"coverArtUrl"`
	ShowroomTier          string `json:"showroomTier"`
	ShowroomLightingColor string `json:"showroomLightingColor"`

	// ShowroomLightingColorLinear is derived from ShowroomLightingColor by
	// the mapper and is never read from the payload.
	ShowroomLightingColorLinear LinearColor `json:"showroomLightingColorLinear"`
}

// Details mirrors /api/showroom/games/{id}. It carries every Summary field
// plus the media, link and timestamp fields only the detail view returns.
type Details struct {
	Summary

	TrailerURL      string    `json:"trailerUrl"`
	GameURL         string    `json:"gameUrl"`
	LauncherURL     string    `json:"launcherUrl"`
	ScreenshotURLs  []string  `json:"screenshotUrls"`
	TargetPlatforms []string  `json:"targetPlatforms"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	CompanyLogoURL  string    `json:"companyLogoUrl"`
	FullDescription string    `json:"fullDescription"`
	AgeRating       string    `json:"ageRating"`
	RatingBoard     string    `json:"ratingBoard"`
	SupportEmail    string    `json:"supportEmail"`
	IsFeatured      bool      `json:"isFeatured"`
	ViewCount       int       `json:"viewCount"`
	LikeCount       int       `json:"likeCount"`
	PublishedAt     time.Time `json:"publishedAt"`
}

// LinearColor is a normalized RGBA color with every channel in [0, 1].
type LinearColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// White is the fallback lighting color.
var White = LinearColor{R: 1, G: 1, B: 1, A: 1}

// Colorful returns the RGB part of c as a go-colorful color.
func (c LinearColor) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex renders c as #rrggbb, dropping alpha.
func (c LinearColor) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// IsLight reports whether dark text reads better than light text on c.
func (c LinearColor) IsLight() bool {
	l, _, _ := c.Colorful().Lab()
	return l > 0.6
}

// DisplayName returns the name, falling back to slug and then id.
func (s Summary) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Slug != "":
		return s.Slug
	default:
		return s.ID
	}
}
