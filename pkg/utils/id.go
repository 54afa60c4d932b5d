package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 20
)

// GenerateID gera o identificador dos registros persistidos
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
