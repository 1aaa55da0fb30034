package utils

const QuestionsPerPage = 10

// Paginate returns the 1-based page of items. Pages outside the list yield
// an empty, non-nil slice.
func Paginate[T any](page int, items []T) []T {
	// compare before multiplying so huge page numbers cannot overflow
	if page < 1 || page-1 >= (len(items)+QuestionsPerPage-1)/QuestionsPerPage {
		return []T{}
	}
	start := (page - 1) * QuestionsPerPage
	end := start + QuestionsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
