package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"ATLAS_DEBUG"`

	Api struct {
		Url  string `yaml:"url" envconfig:"ATLAS_API_URL"`
		Port string `yaml:"port" envconfig:"ATLAS_API_INTERNAL_PORT" default:"5000"`
	} `yaml:"api"`

	Pipeline struct {
		InputCsvPath    string `yaml:"inputCsvPath" envconfig:"ATLAS_PIPELINE_INPUT_CSV_PATH" default:"data/raw/master_qDMS_df.csv"`
		DrugCatalogPath string `yaml:"drugCatalogPath" envconfig:"ATLAS_PIPELINE_DRUG_CATALOG_PATH"`
		OutputPath      string `yaml:"outputPath" envconfig:"ATLAS_PIPELINE_OUTPUT_PATH" default:"public/data/v1.0"`

		VariantProcessingConcurrencyLevel int `yaml:"variantProcessingConcurrencyLevel" envconfig:"ATLAS_PIPELINE_VARIANT_CONCURRENCY" default:"8"`

		// the three fixed experimental concentrations (nanomolar)
		// backing the low/medium/high dose tiers
		TierLowConcentration    float64 `yaml:"tierLowConcentration" envconfig:"ATLAS_PIPELINE_TIER_LOW_CONC" default:"1.25"`
		TierMediumConcentration float64 `yaml:"tierMediumConcentration" envconfig:"ATLAS_PIPELINE_TIER_MEDIUM_CONC" default:"5"`
		TierHighConcentration   float64 `yaml:"tierHighConcentration" envconfig:"ATLAS_PIPELINE_TIER_HIGH_CONC" default:"20"`

		ScheduleEnabled bool   `yaml:"scheduleEnabled" envconfig:"ATLAS_PIPELINE_SCHEDULE_ENABLED"`
		ScheduleTime    string `yaml:"scheduleTime" envconfig:"ATLAS_PIPELINE_SCHEDULE_TIME" default:"04:00:00"`
	} `yaml:"pipeline"`

	Elasticsearch struct {
		Enabled  bool   `yaml:"enabled" envconfig:"ATLAS_ES_ENABLED"`
		Url      string `yaml:"url" envconfig:"ATLAS_ES_URL"`
		Username string `yaml:"username" envconfig:"ATLAS_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"ATLAS_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
}
