package apigridv1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/colconf"
)

// getConfig returns the saved configuration, or the default one when nothing
// was saved. Absence is not an error.
func getConfig(ctx context.Context) (*colconf.Config, error) {

	s := GetServicer(ctx)
	userID := box.GetUrlParameter(ctx, "userId")
	gridID := box.GetUrlParameter(ctx, "gridId")

	config := s.LoadConfig(userID, gridID)
	if config != nil {
		return config, nil
	}

	return s.DefaultConfig(userID, gridID), nil
}

func saveConfig(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)

	config := &colconf.Config{}
	err := json.NewDecoder(r.Body).Decode(config)
	if err != nil {
		box.GetResponse(ctx).WriteHeader(http.StatusBadRequest)
		return err
	}
	config.UserID = box.GetUrlParameter(ctx, "userId")
	config.GridID = box.GetUrlParameter(ctx, "gridId")

	err = s.SaveConfig(config)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(config)
}

// resetConfig deletes the stored configuration and returns the regenerated
// default.
func resetConfig(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	userID := box.GetUrlParameter(ctx, "userId")
	gridID := box.GetUrlParameter(ctx, "gridId")

	config, err := s.ResetConfig(userID, gridID)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(config)
}
