package adminsdk

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type Identity struct {
	UserID    string   `json:"userId"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type CategoryTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Category struct {
	ID           int64                 `json:"id"`
	Slug         string                `json:"slug"`
	ParentID     *int64                `json:"parentId"`
	Translations []CategoryTranslation `json:"translations"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type FormField struct {
	ID            int64       `json:"id"`
	Slug          string      `json:"slug"`
	LabelEn       string      `json:"labelEn"`
	LabelEs       string      `json:"labelEs"`
	DescriptionEn string      `json:"descriptionEn"`
	DescriptionEs string      `json:"descriptionEs"`
	ComponentType string      `json:"componentType"`
	FormStepID    *int64      `json:"formStepId"`
	ColumnName    string      `json:"columnName"`
	TableName     string      `json:"tableName"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	FormValues    []FormValue `json:"formValues"`
}

type FormValue struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	ValueEn         string     `json:"valueEn"`
	ValueEs         string     `json:"valueEs"`
	DescriptionEn   string     `json:"descriptionEn"`
	DescriptionEs   string     `json:"descriptionEs"`
	FormFieldID     int64      `json:"formFieldId"`
	IsActive        bool       `json:"isActive"`
	GroupEn         *string    `json:"groupEn"`
	GroupEs         *string    `json:"groupEs"`
	InCategorySlugs []string   `json:"inCategorySlugs"`
	Type            string     `json:"type"`
	Rank            *int       `json:"rank"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"deletedAt"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Codec    string `json:"codec"`
}
