// Package model defines the data structures used throughout the application.
package model

// Gender is the closed set of values the registration form offers.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted values in form order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Valid reports whether g is one of Genders.
func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

const (
	// NoPhotoSentinel is stored in PhotoPath when the helper registered without a photo.
	NoPhotoSentinel = "No photo uploaded"

	// RegistrationDateLayout formats HelperRecord.RegistrationDate.
	RegistrationDateLayout = "2006-01-02 15:04:05"

	// PhotoTimestampLayout prefixes stored photo filenames.
	PhotoTimestampLayout = "20060102_150405"

	// SpreadsheetContentType is the MIME type of the downloadable table.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns is the header row of the helper table, in storage order.
var Columns = []string{
	"name", "age", "gender", "address", "contact",
	"experience", "photo_path", "rate", "registration_date",
}

// HelperRecord is one registered house helper, i.e. one row of the table.
//
// Records are written once at registration and never updated, so
// RegistrationDate is kept as the formatted string that was stored.
type HelperRecord struct {
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           Gender  `json:"gender"`
	Address          string  `json:"address"`
	Contact          string  `json:"contact"`
	Experience       int     `json:"experience"`
	PhotoPath        string  `json:"photoPath"`
	Rate             float64 `json:"rate"`
	RegistrationDate string  `json:"registrationDate"`
}

// HasPhoto reports whether PhotoPath points at a stored file.
func (h HelperRecord) HasPhoto() bool {
	return h.PhotoPath != "" && h.PhotoPath != NoPhotoSentinel
}

// Summary projects the record to the columns shown in search results.
func (h HelperRecord) Summary() HelperSummary {
	return HelperSummary{
		Name:   h.Name,
		Age:    h.Age,
		Gender: h.Gender,
		Rate:   h.Rate,
	}
}

// HelperSummary is the search result projection.
type HelperSummary struct {
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Gender Gender  `json:"gender"`
	Rate   float64 `json:"rate"`
}

// DownloadArtifact is the table file as handed to an authenticated caller.
type DownloadArtifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
