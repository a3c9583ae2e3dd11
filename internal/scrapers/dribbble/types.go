package dribbble

// Absent values are nil pointers and serialize as null so that the set of
// keys in the output never depends on what a page happened to contain. Counts
// use 0 for unknown.

// Profile is the root record of a scrape.
type Profile struct {
	Username   string `json:"username"`
	ProfileUrl string `json:"profile_url"`

	Overview
	About

	Shots        ShotsSection          `json:"shots"`
	Projects     map[string]Project    `json:"projects"`
	Collections  map[string]Collection `json:"collections"`
	Members      *MembersSection       `json:"members"`
	GoodsForSale map[string]Good       `json:"goods_for_sale"`
}

// Overview holds the fields read from the profile's landing page.
type Overview struct {
	// UserExists is "Yes" or "No", absent when the page couldn't be read.
	UserExists       *string `json:"user_exists"`
	ShotsCount       int     `json:"shots_count"`
	ProjectsCount    int     `json:"projects_count"`
	CollectionsCount int     `json:"collections_count"`
	LikedShots       int     `json:"liked_shots"`
	UserDescription  *string `json:"user_description"`
	HireStatus       bool    `json:"hire_status"`
	MembersCount     int     `json:"members_count"`
	TeamUrl          *string `json:"team_url"`
}

// About holds the fields read from the about page.
type About struct {
	Followers int     `json:"followers"`
	Following int     `json:"following"`
	Tags      *string `json:"tags"`
	Location  *string `json:"location"`
	Bio       *string `json:"bio"`
	IsPro     bool    `json:"is_pro"`
	// JoinDate is in YYYY-MM-DD form.
	JoinDate *string  `json:"join_date"`
	Skills   []string `json:"skills"`
	// SocialMediaProfiles maps a network name (ex. "twitter") to the
	// resolved profile url.
	SocialMediaProfiles map[string]string `json:"social_media_profiles"`
}

type ShotsSection struct {
	ShotsCount int `json:"shots_count"`
	// Shots is keyed by title, a later shot overwrites an earlier one with
	// the same title.
	Shots map[string]Shot `json:"shots"`
}

type Shot struct {
	Url            *string `json:"shot_url"`
	AltDescription *string `json:"alt_description"`
	// Metadata is only filled in when the scrape runs with metadata.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata is read from an item's own page.
type Metadata struct {
	ColorPalette  []string `json:"color_palette"`
	Likes         int      `json:"likes"`
	PublishedDate *string  `json:"published_date"`
	SavesCount    int      `json:"saves_count"`
	IsAnimated    *bool    `json:"is_animated"`
	IsAnimatedGif *bool    `json:"is_animated_gif"`
	Tags          []string `json:"tags"`
	ViewsCount    int      `json:"views_count"`
}

type Project struct {
	UpdatedDate *string                `json:"updated_date"`
	Shots       map[string]ProjectShot `json:"shots"`
}

type ProjectShot struct {
	PublishedDate *string `json:"shot_pub_date"`
	Description   *string `json:"shot_description"`
	Url           *string `json:"shot_url"`
}

type Collection struct {
	ShotsCount     int                       `json:"shots_count"`
	DesignersCount int                       `json:"designers_count"`
	Url            *string                   `json:"collection_url"`
	Shots          map[string]CollectionShot `json:"shots"`
}

type CollectionShot struct {
	DesignerProfileUrl *string `json:"designer_profile_url"`
	DesignerName       *string `json:"designer_name"`
	Likes              int     `json:"shot_likes"`
	Views              int     `json:"shot_views"`
	IsPro              bool    `json:"is_pro"`
	ImageUrl           *string `json:"image_url"`
	Url                *string `json:"shot_url"`
}

type MembersSection struct {
	// MembersCount is the count shown on the profile, it may differ from
	// the number of members actually listed.
	MembersCount int               `json:"members_count"`
	Members      map[string]Member `json:"members"`
}

type Member struct {
	ProfileUrl  *string `json:"profile_url"`
	ProfileName *string `json:"profile_name"`
	Location    *string `json:"location"`
	IsPro       bool    `json:"is_pro"`
}

type Good struct {
	Url      *string   `json:"url"`
	Price    *string   `json:"price"`
	Metadata *Metadata `json:"metadata"`
}

func newAbout() About {
	return About{
		Skills:              []string{},
		SocialMediaProfiles: map[string]string{},
	}
}

func newShotsSection() ShotsSection {
	return ShotsSection{Shots: map[string]Shot{}}
}

func newProfile(username, profileUrl string) Profile {
	return Profile{
		Username:     username,
		ProfileUrl:   profileUrl,
		About:        newAbout(),
		Shots:        newShotsSection(),
		Projects:     map[string]Project{},
		Collections:  map[string]Collection{},
		GoodsForSale: map[string]Good{},
	}
}
