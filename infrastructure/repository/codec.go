package repository

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// encodeRecord converte uma entidade do domínio no documento persistido
func encodeRecord(entity any) (Record, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao serializar registro")
	}

	record := Record{}
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, errors.Wrap(err, "erro ao converter registro")
	}

	return record, nil
}

// decodeRecord preenche a entidade do domínio a partir do documento persistido
func decodeRecord(record Record, entity any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar registro")
	}

	if err := json.Unmarshal(payload, entity); err != nil {
		return errors.Wrap(err, "erro ao decodificar registro")
	}

	return nil
}

// cloneRecord devolve uma cópia profunda normalizada em tipos JSON
func cloneRecord(record Record) (Record, error) {
	return encodeRecord(record)
}
