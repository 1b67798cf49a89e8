package output

// T renders localized messages for API responses.
type T interface {
	// T renders the message identified by key for locale. data fills template
	// placeholders and may be nil. Unknown keys render as the key itself.
	T(locale, key string, data map[string]any) string
}
