package models

import "github.com/SparkyDaBear/AtlasBioTech/models/artifacts"

type SearchResponseDTO struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Term    string `json:"term"`
	Count   int    `json:"count"`

	Genes    []artifacts.GeneEntry    `json:"genes"`
	Drugs    []artifacts.DrugEntry    `json:"drugs"`
	Variants []artifacts.VariantEntry `json:"variants"`
}
