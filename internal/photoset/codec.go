package photoset

// Encode returns the stored form of uris: nil for none, the bare URI for one,
// a JSON array for two or more.
func Encode(uris []string) *string {
	return New(uris...).Encode()
}

// Decode returns the URIs held in a stored value. It accepts NULL, the legacy
// bare URI and the JSON array form, and never fails.
func Decode(value *string) []string {
	return Parse(value).URIs()
}

// Count returns the number of photos in a stored value.
func Count(value *string) int {
	return Parse(value).Len()
}

// First returns the first photo of a stored value.
func First(value *string) (string, bool) {
	return Parse(value).First()
}

// AddPhotos appends uris to a stored value and returns the new stored value.
func AddPhotos(value *string, uris ...string) *string {
	return Parse(value).Add(uris...).Encode()
}

// RemovePhoto drops the first occurrence of uri from a stored value.
// Removing a URI that is not present returns an equivalent value.
func RemovePhoto(value *string, uri string) *string {
	return Parse(value).Remove(uri).Encode()
}

// Ptr is a small helper for building stored values in callers and tests.
func Ptr(s string) *string {
	return &s
}
