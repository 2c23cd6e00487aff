package domain

var typeLabels = map[string]string{
	"artwork":             "Illustration",
	"audioRecording":      "Recording",
	"bill":                "Legislation",
	"blogPost":            "Blog post",
	"book":                "Book",
	"bookSection":         "Chapter",
	"case":                "Legal case",
	"computerProgram":     "Data",
	"conferencePaper":     "Conference paper",
	"email":               "Letter",
	"encyclopediaArticle": "Encyclopaedia article",
	"film":                "Film",
	"forumPost":           "Forum post",
	"hearing":             "Hearing",
	"instantMessage":      "Instant message",
	"interview":           "Interview",
	"journalArticle":      "Article",
	"letter":              "Letter",
	"magazineArticle":     "Magazine article",
	"manuscript":          "Manuscript",
	"map":                 "Image",
	"newspaperArticle":    "Newspaper article",
	"patent":              "Patent",
	"podcast":             "Podcast",
	"presentation":        "Presentation",
	"radioBroadcast":      "Radio broadcast",
	"report":              "Report",
	"statute":             "Legislation",
	"thesis":              "Thesis",
	"tvBroadcast":         "TV broadcast",
	"videoRecording":      "Recording",
	"webpage":             "Webpage",
}

// TypeLabel maps an item type id to its display label. ok is false for
// types outside the table; callers decide how to render the gap.
func TypeLabel(itemType string) (string, bool) {
	label, ok := typeLabels[itemType]
	return label, ok
}
