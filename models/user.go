package models

import "time"

type UserAccount struct {
	JsonModel
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Banned   bool   `gorm:"default:false" json:"-"`
	LastIp   string `json:"-"`
	//"INVITATION_PENDING", "STARTED_AUTH", "FINISHED_AUTH"
	Status           string            `json:"-"`
	Platform         Platform          `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Memberships      []UserCompanyRole `gorm:"foreignKey:UserAccountID"`
	AdminInCompanys  []Company         `gorm:"foreignKey:OwnerID"`
	TelegramUsername string            `json:"telegram_username"`
	Subscription     *string           `json:"subscription"`
	ExpirationDate   *time.Time        `json:"-"`

	ReceiveNotifications bool `json:"receive_notifications"`
	IsSuperadmin         bool `json:"is_superadmin"`

	AvatarURL string `json:"avatar_url"`

	// styling profile used when composing looks
	BodyShape string `json:"body_shape"` // e.g. rectangle, pear, hourglass
	// comma separated tags, e.g. "minimal,classic"
	StylePreferences string   `json:"style_preferences"`
	ChestCM          *float64 `json:"chest_cm"`
	WaistCM          *float64 `json:"waist_cm"`
	HipsCM           *float64 `json:"hips_cm"`
	HeightCM         *float64 `json:"height_cm"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UserCompanyRole struct {
	JsonModel
	UserAccountID    uint
	UserAccount      UserAccount `json:"user_account"`
	Active           bool        `gorm:"default:false" json:"-"`
	Role             Role        `sql:"type:ENUM('OWNER', 'ADMIN', 'SALES')" json:"role"`
	InviteCode       *string     `json:"-"`
	InviteAcceptedAt *int64      `json:"invite_accepted_at"`
	CompanyID        uint
	Company          Company `json:"company"`
}

type Company struct {
	JsonModel
	Name             string            `json:"name"`
	Address          *string           `json:"address"`
	ImageUrl         *string           `json:"image_url"`
	Owner            UserAccount       `json:"-"`
	OwnerID          uint              `json:"-"`
	Subscription     Subscription      `json:"subscription"`
	TrialStartedDate *int64            `json:"trial_started_date"`
	TrialDays        *uint             `json:"trial_days"`
	Members          []UserCompanyRole `json:"members"`
	Currency         string            `json:"currency"`
	Language         string            `json:"language"`
	Active           bool              `json:"active"`

	EnforcedDailyGenerationLimit *int32 `json:"enforced_daily_generation_limit"`
	EnforcedLLMModel             *int32 `json:"enforced_llm_model"`
	FullAdminAccess              bool   `json:"full_admin_access"`
}
