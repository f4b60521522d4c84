package sources

// Catalog contents used when nothing has been persisted yet.

var defaultLeaders = []string{
	"Adriano Calmon",
	"Atos",
	"Daniel",
	"Gabriel",
	"Gerfeson",
	"Gildeano",
	"Italo",
	"Jefferson",
	"Jonathan",
}

var defaultGroups = []string{
	"Grupo Litoral",
	"Grupo Norte",
	"Todos os Grupos",
}

var defaultLocations = []Location{
	{ID: "4", Name: "Casa de Vitória", ImageURL: "https://i.ibb.co/4RF4R9gt/Screenshot-20251116-173334-2.png"},
	{ID: "1", Name: "Salão do Reino - Arthur Lundgren", ImageURL: "https://i.ibb.co/DgW3sYC8/Screenshot-20251116-172839-2.png"},
	{ID: "2", Name: "Salão do Reino - Beira Mar", ImageURL: "https://i.ibb.co/Vc9hYZT8/Screenshot-20251116-172415-2.png"},
	{ID: "3", Name: "Salão do Reino - Caetés", ImageURL: "https://i.ibb.co/QLsjkh1/Screenshot-20251116-173041-2.png"},
	{ID: "5", Name: "Salão do Reino - Central Abreu e Lima", ImageURL: "https://i.ibb.co/CKQdKw8G/Screenshot-20251116-173133-2.png"},
	{ID: "6", Name: "Salão do Reino - Janga", ImageURL: "https://i.ibb.co/yFwDr7G7/Screenshot-20251116-172255-2.png"},
	{ID: "7", Name: "Salão do Reino - Jardim Paulista", ImageURL: "https://i.ibb.co/qMJtQFrQ/Screenshot-20251116-172947-2.png"},
	{ID: "8", Name: "Salão do Reino - LS Paulista", ImageURL: "https://i.ibb.co/5g4wYzmw/Screenshot-20251116-172752-2.png"},
	{ID: "9", Name: "Salão do Reino - Maranguape I", ImageURL: "https://i.ibb.co/8nTzRL5m/Screenshot-20251116-175107-2.png"},
	{ID: "10", Name: "Salão do Reino - Norte Abreu e Lima", ImageURL: "https://i.ibb.co/DSpzwv8/Screenshot-20251116-173220-2.png"},
	{ID: "11", Name: "Salão do Reino - Pau Amarelo", ImageURL: "https://i.ibb.co/vxfnFDCY/Screenshot-20251116-172446-2.png"},
	{ID: "12", Name: "Salão do Reino - Riacho de Prata", ImageURL: "https://i.ibb.co/d4vLzcPz/Screenshot-20251116-172524-2.png"},
	{ID: "13", Name: "Zoom", ImageURL: "https://i.ibb.co/Xk69mNbG/Screenshot-20251117-074457-2.jpg"},
}
