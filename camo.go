package boorusnap

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
)

// CamoURL maps an arbitrary upstream media URL to a signed proxy URL, hiding
// the eventual client's IP from the upstream host. If config has no camo key
// or host configured, u is returned unchanged. The derivation is otherwise
// deterministic and does no network I/O: identical (config, u) pairs always
// produce identical results, mirroring the teacher's own HMAC-based
// WithImageProxy signing (conf.go), generalized from a query-string signature
// to this spec's hex-digest-in-path scheme.
func CamoURL(config *Configuration, u *url.URL) (*url.URL, error) {
	if u == nil {
		return nil, nil
	}
	if config.CamoKey == "" || config.CamoHost == "" {
		return u, nil
	}
	key, err := hex.DecodeString(config.CamoKey)
	if err != nil {
		return nil, &configError{"CAMO_KEY is not valid hex: " + err.Error()}
	}
	raw := []byte(u.String())
	mac := hmac.New(sha1.New, key)
	mac.Write(raw)
	digest := hex.EncodeToString(mac.Sum(nil))
	hexURL := hex.EncodeToString(raw)
	camo := &url.URL{
		Scheme: "https",
		Host:   config.CamoHost,
		Path:   "/" + digest + "/" + hexURL,
	}
	return camo, nil
}
