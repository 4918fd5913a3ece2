package domain

// StoredAsset references an object that the external store has confirmed.
type StoredAsset struct {
	SecureURL        string
	OriginalFilename string
}
