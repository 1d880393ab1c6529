package catalog

import "encoding/json"

// The cache stores opaque serialized blobs; this codec is the single typed
// boundary between catalog values and those blobs. Encoding and decoding
// must stay symmetric per key: a list key always holds a product list, a
// product key always holds a single product.

func encodeEntry[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

func decodeEntry[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
