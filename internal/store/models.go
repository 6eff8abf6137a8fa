package store

// Field names in the JSON tags are part of the on-disk format; changing one
// breaks reading of existing files.

// MaxTagLength caps a single free-text tag.
const MaxTagLength = 24

// MaxRecentFiles caps the most-recently-opened deck list.
const MaxRecentFiles = 5

// Timer and count overlay positions.
const (
	PosBottomRight  = "bottom_right"
	PosBottomCenter = "bottom_center"
	PosBottomLeft   = "bottom_left"
	PosTopRight     = "top_right"
	PosTopCenter    = "top_center"
	PosTopLeft      = "top_left"
)

// Named shortcut actions.
const (
	ActionNextImage     = "next_image"
	ActionPreviousImage = "previous_image"
	ActionTogglePause   = "toggle_pause"
	ActionStopCroquis   = "stop_croquis"
)

// Settings is the single per-installation configuration record. Decoding
// starts from DefaultSettings so fields missing from older files keep
// their documented defaults.
type Settings struct {
	ImageFolder        string            `json:"image_folder"`
	ImageWidth         int               `json:"image_width"`
	ImageHeight        int               `json:"image_height"`
	Grayscale          bool              `json:"grayscale"`
	FlipHorizontal     bool              `json:"flip_horizontal"`
	TimerPosition      string            `json:"timer_position"`
	TimerFontSize      string            `json:"timer_font_size"`
	TimeSeconds        int               `json:"time_seconds"`
	Language           string            `json:"language"`
	DarkMode           bool              `json:"dark_mode"`
	StudyMode          bool              `json:"study_mode"`
	TodayCountPosition string            `json:"today_croquis_count_position"`
	TodayCountFontSize string            `json:"today_croquis_count_font_size"`
	Shortcuts          map[string]string `json:"shortcuts"`
}

// DefaultSettings returns the values used on first run and for any field
// absent from a stored settings file.
func DefaultSettings() Settings {
	return Settings{
		ImageWidth:         400,
		ImageHeight:        700,
		TimerPosition:      PosBottomRight,
		TimerFontSize:      "large",
		TimeSeconds:        5,
		Language:           "ko",
		TodayCountPosition: PosTopRight,
		TodayCountFontSize: "medium",
		Shortcuts: map[string]string{
			ActionNextImage:     "Space",
			ActionPreviousImage: "Left",
			ActionTogglePause:   "P",
			ActionStopCroquis:   "Escape",
		},
	}
}

// Image is one reference image inside a deck. Data is raw encoded image
// bytes (PNG/JPEG); encoding/json carries it as base64, matching the
// original file format.
type Image struct {
	Filename     string   `json:"filename"`
	OriginalPath string   `json:"original_path"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Size         int64    `json:"size"`
	Data         []byte   `json:"image_data"`
	Difficulty   int      `json:"difficulty"`
	Tags         []string `json:"tags"`
}

// Deck is an ordered collection of images persisted as one .crdk file.
// Filename is the deduplication key within a deck.
type Deck struct {
	Images      []Image `json:"images"`
	CurrentPath string  `json:"current_path"`
}

// ImageMetadata is the sub-record copied from an Image into a history pair
// at save time.
type ImageMetadata struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
}

// HistoryPair is one completed croquis: the reference image and the user's
// drawing, with timing. Pairs are immutable once written except for Memo.
type HistoryPair struct {
	Original    []byte        `json:"original"`
	Screenshot  []byte        `json:"screenshot"`
	Timestamp   string        `json:"timestamp"` // YYYYMMDD_HHMMSS
	CroquisTime int           `json:"croquis_time"`
	Metadata    ImageMetadata `json:"image_metadata"`
	Memo        string        `json:"memo"`
}

// HistoryEntry pairs a loaded HistoryPair with the file it came from, so
// memo edits can target it.
type HistoryEntry struct {
	File string
	Pair HistoryPair
}

// Alarm trigger types.
const (
	AlarmWeekly = "weekday"
	AlarmOnce   = "date"
)

// Alarm fires a notification at Time (HH:MM) either on a weekday set
// (0=Monday..6=Sunday) or on one specific date.
type Alarm struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Weekdays []int  `json:"weekdays,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD
	Enabled  bool   `json:"enabled"`
}
