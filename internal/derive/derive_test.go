package derive

import (
	"testing"

	"github.com/kuisku/kuisku/internal/catalog"
	"github.com/kuisku/kuisku/internal/quiz"
)

func TestDerive(t *testing.T) {
	d := Default(catalog.Default())

	tests := []struct {
		question  string
		answer    string
		typ       quiz.QuestionType
		extractor string
	}{
		{"Hasil dari 5 + 3 adalah...", "8", quiz.TypeNumeric, NameBareArithmetic},
		{"Hasil dari 12 + 8 - 5 adalah", "15", quiz.TypeNumeric, NameBareArithmetic},
		{"Hasil dari 5 x 6 - 15 : 3 adalah...", "25", quiz.TypeNumeric, NameBareArithmetic},
		{"Berapakah 1/2 + 1/4?", "0.75", quiz.TypeNumeric, NameBareArithmetic},
		{"Hasil dari 2,5 + 1,5 adalah", "4", quiz.TypeNumeric, NameBareArithmetic},
		{"Hasil dari 7 x 8 adalah...", "56", quiz.TypeNumeric, NameExpression},
		{"Hasil dari 2 pangkat 3 adalah", "8", quiz.TypeNumeric, NameExpression},
		{"Akar kuadrat dari 16 + 9 adalah", "13", quiz.TypeNumeric, NameExpression},
		{"Hasil dari 144 : 12 adalah", "12", quiz.TypeNumeric, NameExpression},
		{"Hasil dari 10 : 3 adalah", "3.33", quiz.TypeNumeric, NameExpression},
		{"Ibu punya 5 apel lalu membeli 3 apel. 5 + 3 = ...", "8", quiz.TypeNumeric, NameBinaryFallback},
		{"Ada 4 kotak berisi 6 x 7 buah", "42", quiz.TypeNumeric, NameBinaryFallback},
		{"Dua 500-an sama dengan", "seribuan", quiz.TypeNumeric, NameMultiplierAn},
		{"Tiga 500-an sama dengan", "1500", quiz.TypeNumeric, NameMultiplierAn},
		{"Sepuluh 1000-an adalah", "sepuluhribuan", quiz.TypeNumeric, NameMultiplierAn},
		{"Modus dari data 5, 7, 5, 8, 9 adalah", "5", quiz.TypeNumeric, NameMode},
		{"Modus dari data 4, 6, 6, 4, 3 adalah", "4", quiz.TypeNumeric, NameMode},
		{"Nilai tempat angka 5 pada bilangan 2.541 adalah", "ratusan", quiz.TypeDefinition, NamePlaceValue},
		{"Nilai tempat 7 di 7123 adalah", "ribuan", quiz.TypeDefinition, NamePlaceValue},
		{"3 jam = ... menit", "180", quiz.TypeNumeric, NameHoursToMinutes},
		{"2 kg = ... gram", "2000", quiz.TypeNumeric, NameKgToGrams},
		{"4 triwulan = ... bulan", "12", quiz.TypeNumeric, NameQuartersToMonths},
		{"1/2 ... 0,5 =", "=", quiz.TypeComparison, NameComparison},
		{"3/4 ... 0,5 =", ">", quiz.TypeComparison, NameComparison},
		{"0,25 ... 1/3 =", "<", quiz.TypeComparison, NameComparison},
		{"Bilangan ganjil antara 10 dan 20 adalah", "11 13 15 17 19", quiz.TypeSequence, NameParitySequence},
		{"Bilangan genap antara 3 dan 9 adalah", "4 6 8", quiz.TypeSequence, NameParitySequence},
		{"Keliling persegi dengan sisi 5 cm adalah", "20", quiz.TypeNumeric, NameSquarePerimeter},
		{"Volume kubus dengan rusuk 3 cm adalah", "27", quiz.TypeNumeric, NameCubeVolume},
		{"Satuan suhu adalah...", "celcius", quiz.TypeDefinition, NameDefinition},
		{"Nilai tengah dari data yang sudah diurutkan adalah", "median", quiz.TypeDefinition, NameDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := d.Derive(tt.question)
			if !got.Found {
				t.Fatalf("Derive(%q) found nothing", tt.question)
			}
			if got.Answer != tt.answer {
				t.Errorf("answer = %q, want %q", got.Answer, tt.answer)
			}
			if got.Type != tt.typ {
				t.Errorf("type = %q, want %q", got.Type, tt.typ)
			}
			if got.Extractor != tt.extractor {
				t.Errorf("extractor = %q, want %q", got.Extractor, tt.extractor)
			}
		})
	}
}

func TestDeriveNoMatch(t *testing.T) {
	d := Default(catalog.Default())

	questions := []string{
		"",
		"   ",
		"Siapakah presiden pertama Indonesia?",
		"Bilangan ganjil antara 10 dan 11 adalah",
		"Nilai tempat angka 9 pada bilangan 1234 adalah",
		"Nilai tempat angka 1 pada bilangan 123456 adalah",
		"Hasil dari 10 / 0 adalah",
		"Hasil dari import os adalah",
		"Hasil dari 2 pangkat 100 adalah",
	}
	for _, q := range questions {
		got := d.Derive(q)
		if got.Found {
			t.Errorf("Derive(%q) = %+v, want no match", q, got)
		}
		if got.Type != quiz.TypeUnknown {
			t.Errorf("Derive(%q) type = %q, want unknown", q, got.Type)
		}
	}
}

func TestDeriveFirstMatchWins(t *testing.T) {
	calls := 0
	d := NewDeriver([]Extractor{
		{Name: "declines", Type: quiz.TypeNumeric, Eval: func([]string, string) (string, bool) {
			calls++
			return "", false
		}},
		{Name: "first", Type: quiz.TypeDefinition, Eval: func([]string, string) (string, bool) {
			return "a", true
		}},
		{Name: "second", Type: quiz.TypeNumeric, Eval: func([]string, string) (string, bool) {
			t.Error("second extractor must not run")
			return "b", true
		}},
	})
	got := d.Derive("apa saja")
	if got.Answer != "a" || got.Extractor != "first" || got.Type != quiz.TypeDefinition {
		t.Errorf("got %+v", got)
	}
	if calls != 1 {
		t.Errorf("declining extractor called %d times, want 1", calls)
	}
}
