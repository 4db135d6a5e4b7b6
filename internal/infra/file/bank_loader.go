package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"guess-the-app/internal/domain"
)

// BankLoader reads question banks from a YAML document of the form
//
//	banks:
//	  - id: default
//	    questions: [...]
type BankLoader struct {
	path string
}

type bankFile struct {
	Banks []domain.Bank `yaml:"banks"`
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank file: %w", err)
	}
	var doc bankFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Bank{}, fmt.Errorf("parse bank file %s: %w", l.path, err)
	}
	for _, bank := range doc.Banks {
		if bank.ID == bankID {
			return bank, nil
		}
	}
	return domain.Bank{}, fmt.Errorf("bank %s in %s: %w", bankID, l.path, domain.ErrBankNotFound)
}
