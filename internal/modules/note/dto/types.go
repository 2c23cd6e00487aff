package dto

type ConvertInput struct {
	HTML string
}

type NoteOutput struct {
	Title   string
	Content string
}
