package dto

type CrearLocalRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=1,max=120"`
	Direccion *string `json:"direccion"`
}

type ActualizarLocalRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=1,max=120"`
	Direccion *string `json:"direccion"`
}

type LocalResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion *string `json:"direccion"`
}
