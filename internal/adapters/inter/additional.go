package inter

import (
	"encoding/json"
	"reflect"
	"strings"
)

// AdditionalFields guarda os campos JSON que o SDK ainda não conhece, para
// que respostas com campos novos sejam preservadas e reenviadas intactas
type AdditionalFields map[string]json.RawMessage

// Get decodifica um campo adicional em v; retorna false se o campo não existe
func (a AdditionalFields) Get(key string, v any) (bool, error) {
	raw, ok := a[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// decodeWithAdditional decodifica data em target (ponteiro para struct sem
// UnmarshalJSON próprio) e devolve as chaves que nenhum campo consumiu
func decodeWithAdditional(data []byte, target any) (AdditionalFields, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	for _, name := range jsonFieldNames(reflect.TypeOf(target)) {
		delete(raw, name)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// encodeWithAdditional serializa v e acrescenta os campos adicionais que não
// colidem com campos conhecidos
func encodeWithAdditional(v any, extra AdditionalFields) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, known := merged[k]; !known {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}

// jsonFieldNames lista os nomes JSON dos campos de uma struct, incluindo os
// de structs embutidas
func jsonFieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			names = append(names, jsonFieldNames(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}
