package serviceInfo

import (
	"net/http"

	serviceInfo "github.com/SparkyDaBear/AtlasBioTech/models/constants/service-info"

	"github.com/labstack/echo"
)

func GetServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"type": map[string]interface{}{
			"artifact": serviceInfo.SERVICE_ARTIFACT,
			"group":    serviceInfo.SERVICE_TYPE_NO_VER,
			"version":  serviceInfo.SERVICE_VERSION,
		},
		"id":          serviceInfo.SERVICE_ID,
		"name":        serviceInfo.SERVICE_NAME,
		"description": serviceInfo.SERVICE_DESCRIPTION,
		"organization": map[string]string{
			"name": "Atlas BioTech",
			"url":  "https://atlasbiotech.example.org",
		},
		"contactUrl": serviceInfo.SERVICE_CONTACT,
		"version":    serviceInfo.SERVICE_VERSION,
	})
}

func GetServiceWelcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": serviceInfo.SERVICE_WELCOME,
	})
}
