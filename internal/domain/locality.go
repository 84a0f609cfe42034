package domain

// State - штат (единица административного деления) из справочника IBGE
type State struct {
	ID   int64  `json:"id"`
	Code string `json:"sigla"`
	Name string `json:"nome"`
}

// City - муниципалитет
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}
