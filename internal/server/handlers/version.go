package handlers

import (
	"net/http"

	"github.com/information-sharing-networks/blog-api/internal/blog"
	"github.com/information-sharing-networks/blog-api/internal/version"
)

// VersionResponse describes the running build
type VersionResponse struct {
	Service   string `json:"service" example:"blog-server"`
	Version   string `json:"version" example:"v1.2.0"`
	BuildDate string `json:"buildDate" example:"2024-01-28T10:00:00Z"`
	GitCommit string `json:"gitCommit" example:"3f2c1a9"`
}

// HandleVersion godoc
//
//	@Summary	Get version information
//	@Tags		Common
//	@Produce	json
//	@Success	200	{object}	VersionResponse
//	@Router		/version [get]
func HandleVersion(info version.Info) http.HandlerFunc {
	response := VersionResponse{
		Service:   "blog-server",
		Version:   info.Version,
		BuildDate: info.BuildDate,
		GitCommit: info.GitCommit,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		blog.RespondWithJSONPayload(w, http.StatusOK, response)
	}
}
