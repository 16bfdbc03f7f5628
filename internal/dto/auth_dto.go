package dto

// ─── Auth ────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Username string  `json:"username"  validate:"required,min=3"`
	Password string  `json:"password"  validate:"required,min=4"`
	Nombre   *string `json:"nombre"`
	Rol      string  `json:"rol"       validate:"required,oneof=jefe_papa jefe_mama empleado"`
	LocalID  *string `json:"local_id"  validate:"omitempty,uuid"`
}

type ActualizarUsuarioRequest struct {
	Nombre   *string `json:"nombre"`
	Rol      string  `json:"rol"      validate:"omitempty,oneof=jefe_papa jefe_mama empleado"`
	LocalID  *string `json:"local_id" validate:"omitempty,uuid"`
	Password string  `json:"password" validate:"omitempty,min=4"`
}

type UsuarioResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Nombre      *string `json:"nombre"`
	Rol         string  `json:"rol"`
	LocalID     *string `json:"local_id"`
	LocalNombre *string `json:"local_nombre,omitempty"`
	Activo      bool    `json:"activo"`
}
