package ticket

import (
	"fmt"

	"github.com/simpleauthlink/appticket/helpers"
)

// DeriveAppSecret function computes the secret of the app identified by the
// app id provided using the master secret. The result is deterministic, so
// the same app id and master secret always produce the same app secret and it
// does not need to be stored anywhere. If the master secret is empty it
// returns ErrConfig, and if the app id does not have the expected format it
// returns ErrFormat. In both cases the returned string is a random tagged
// placeholder instead of an app secret.
func DeriveAppSecret(appId, masterSecret string) (string, error) {
	if masterSecret == "" {
		return placeholder("missing-master-secret"), ErrConfig
	}
	if !helpers.ValidAppId(appId) {
		return placeholder("bad-format-appid"), fmt.Errorf("%w: %q", ErrFormat, appId)
	}
	// the app id and the master secret are included twice, it must be kept
	// to derive the same secrets as other implementations
	return helpers.HashParts(helpers.AlgorithmSHA256, appId, masterSecret, appId, masterSecret), nil
}
