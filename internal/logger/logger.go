// Package logger cria o logger estruturado (zap) usado pelo SDK e pelos binários
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New cria um logger de desenvolvimento (nível debug, saída legível) quando
// debug é true, ou um logger de produção (JSON, nível info) caso contrário
func New(debug bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar logger: %w", err)
	}
	return l.With(zap.String("component", "inter-sdk")), nil
}

// Must é como New, mas entra em pânico em caso de erro
func Must(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		panic(err)
	}
	return l
}
