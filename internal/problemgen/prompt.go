package problemgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kuisku/kuisku/internal/quiz"
)

const systemPrompt = `Anda adalah pembuat soal kuis matematika yang presisi dan akurat.

Aturan:
- Buat soal pilihan ganda yang sederhana, langsung, dan berbasis perhitungan atau konsep dasar.
- Jangan membuat soal cerita yang panjang atau skenario rumit.
- Setiap soal wajib memiliki tepat 4 pilihan jawaban yang berbeda dan relevan.
- correct_answer harus sama persis dengan salah satu pilihan dan benar secara matematis.
- Gunakan angka biasa dan simbol operasi standar (+, -, *, /). Jangan gunakan LaTeX.
- Periksa kembali jawaban Anda sebelum menghasilkan output.
- Output hanya berupa JSON, tanpa teks lain di awal atau akhir, tanpa kurung kurawal ganda.`

// examplePhrasings are the question shapes the verifier recognizes. Steering
// the model towards them lets more answers be checked independently.
var examplePhrasings = []string{
	`"Hasil dari 5 + 3 adalah..." (Opsi: 7, 8, 9, 10. Jawaban: 8)`,
	`"Bentuk desimal dari 3/4 adalah..." (Opsi: 0.25, 0.50, 0.75, 1.00. Jawaban: 0.75)`,
	`"Akar kuadrat dari 49 adalah..." (Opsi: 6, 7, 8, 9. Jawaban: 7)`,
	`"Modus dari data 5, 7, 5, 8, 9 adalah..." (Opsi: 5, 6, 7, 8. Jawaban: 5)`,
	`"2 kg = ... gram" (Opsi: 20, 200, 2000, 0.002. Jawaban: 2000)`,
	`"Tiga 2000-an = ..." (Opsi: 2000, 4000, 6000, 8000. Jawaban: 6000)`,
	`"Nilai tengah dari data yang sudah diurutkan adalah..." (Opsi: rata-rata, median, modus, jangkauan. Jawaban: median)`,
	`"1/2 ... 0,5 =" (Opsi: =, >, !=, <. Jawaban: =)`,
	`"Volume sisi 3 cm =" (Opsi: 9, 12, 27, 81. Jawaban: 27)`,
	`"Ganjil antara 10 dan 20 =" (Opsi: "10 12 14 16 18", "11 13 15 17 19", "12 14 16 18 20", "11 12 13 14 15". Jawaban: "11 13 15 17 19")`,
	`"5 x 6 - 15 : 3 =" (Opsi: 5, 15, 25, 35. Jawaban: 25)`,
	`"1 triwulan = ... bulan" (Opsi: 2, 3, 4, 6. Jawaban: 3)`,
	`"Keliling sisi 8 cm =" (Opsi: 16, 24, 32, 64. Jawaban: 32)`,
}

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Buat TEPAT %d soal pilihan ganda baru.\n", input.Count)
	fmt.Fprintf(&b, "Topik: %s (soal harus bersifat matematika murni, bukan sekadar tentang %q secara umum)\n", input.Topic, input.Topic)
	fmt.Fprintf(&b, "Tingkat: %s (gaya dan kesulitan sesuai untuk siswa %s)\n", input.Level, input.Level)

	b.WriteString("\nContoh bentuk soal yang diharapkan:\n")
	for _, p := range examplePhrasings {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	b.WriteString("\n--- Contoh referensi dari dataset ---\n")
	b.WriteString(buildSamples(input.Samples, cfg.MaxSamples))
	b.WriteString("\n--- Akhir contoh referensi ---\n")

	fmt.Fprintf(&b, "\nKembalikan objek JSON {\"quiz\": [...]} berisi tepat %d objek dengan kunci "+
		"\"question\", \"options\" (4 string), dan \"correct_answer\".", input.Count)

	return b.String()
}

// buildSamples renders reference items as JSON lines, respecting the max
// limit. Returns a fallback sentence when no valid sample is available.
func buildSamples(samples []quiz.ValidatedItem, max int) string {
	var lines []string
	for _, s := range samples {
		if max > 0 && len(lines) >= max {
			break
		}
		if s.Check() != nil {
			continue
		}
		line, err := json.Marshal(s)
		if err != nil {
			continue
		}
		lines = append(lines, string(line))
	}
	if len(lines) == 0 {
		return "Tidak ada contoh yang tersedia. Buat soal berdasarkan topik dan tingkat."
	}
	return strings.Join(lines, "\n")
}
