package datajud

// Court describes one searchable DataJud partition.
type Court struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sphere string `json:"sphere"`
}

const (
	sphereSuperior = "superior"
	sphereFederal  = "federal"
	sphereState    = "estadual"
)

// knownCourts is the static catalog served by the courts listing. DataJud has
// no discovery endpoint, so the catalog mirrors the partitions the service
// actually queries.
var knownCourts = []Court{
	{Code: "tst", Name: "Tribunal Superior do Trabalho", Sphere: sphereSuperior},
	{Code: "tse", Name: "Tribunal Superior Eleitoral", Sphere: sphereSuperior},
	{Code: "stj", Name: "Superior Tribunal de Justiça", Sphere: sphereSuperior},
	{Code: "stm", Name: "Superior Tribunal Militar", Sphere: sphereSuperior},
	{Code: "trf1", Name: "Tribunal Regional Federal da 1ª Região", Sphere: sphereFederal},
	{Code: "trf2", Name: "Tribunal Regional Federal da 2ª Região", Sphere: sphereFederal},
	{Code: "trf3", Name: "Tribunal Regional Federal da 3ª Região", Sphere: sphereFederal},
	{Code: "trf4", Name: "Tribunal Regional Federal da 4ª Região", Sphere: sphereFederal},
	{Code: "trf5", Name: "Tribunal Regional Federal da 5ª Região", Sphere: sphereFederal},
	{Code: "trf6", Name: "Tribunal Regional Federal da 6ª Região", Sphere: sphereFederal},
	{Code: "tjsp", Name: "Tribunal de Justiça de São Paulo", Sphere: sphereState},
	{Code: "tjrj", Name: "Tribunal de Justiça do Rio de Janeiro", Sphere: sphereState},
	{Code: "tjmg", Name: "Tribunal de Justiça de Minas Gerais", Sphere: sphereState},
	{Code: "tjrs", Name: "Tribunal de Justiça do Rio Grande do Sul", Sphere: sphereState},
	{Code: "tjpr", Name: "Tribunal de Justiça do Paraná", Sphere: sphereState},
	{Code: "tjsc", Name: "Tribunal de Justiça de Santa Catarina", Sphere: sphereState},
	{Code: "tjba", Name: "Tribunal de Justiça da Bahia", Sphere: sphereState},
	{Code: "tjce", Name: "Tribunal de Justiça do Ceará", Sphere: sphereState},
	{Code: "tjpe", Name: "Tribunal de Justiça de Pernambuco", Sphere: sphereState},
	{Code: "tjgo", Name: "Tribunal de Justiça de Goiás", Sphere: sphereState},
}
