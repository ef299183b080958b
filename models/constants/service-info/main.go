package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Atlas BioTech Data Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Atlas BioTech mutation database data service!"
	SERVICE_DESCRIPTION ServiceInfo = "Dose-response data pipeline and artifact server for the Atlas BioTech mutation database."
	SERVICE_CONTACT     ServiceInfo = "mailto:data@atlasbiotech.example.org"

	SERVICE_ARTIFACT    ServiceInfo = "atlas-data-pipeline"
	SERVICE_VERSION     ServiceInfo = "2.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.atlasbiotech:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
