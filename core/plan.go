package core

import (
	"fmt"
	"sort"

	"github.com/retailops/auditpulse/schema"
)

// baselineActions is the fixed checklist handed to newly onboarded stores
// that have no wave result yet. Input-independent: always the same ten
// items in the same order.
var baselineActions = []struct {
	source string
	action string
}{
	{"(Section A) Tampilan Tampak Depan Outlet", "Lakukan Pengecekan Harian: Pastikan kesiapan operasional dasar seperti kebersihan fasad, area parkir, kaca depan, dan nyala lampu toko (Signage) sebelum opening."},
	{"(Section B) Sambutan Hangat Ketika Masuk", "Roleplay Interaksi Awal: Latih Retail Assistant untuk selalu siap dengan senyum dan sapaan hangat kepada setiap pelanggan yang masuk."},
	{"(Section C) Suasana & Kenyamanan Outlet", "Inspeksi Suasana: Periksa temperatur AC agar tetap sejuk, pastikan musik background sesuai standar, dan tidak ada aroma tidak sedap di seluruh area toko."},
	{"(Section D) Penampilan Retail Assistant", "Review Grooming: Pastikan seragam, ID card, sepatu dan kerapian rambut seluruh staf sesuai standar sebelum toko buka."},
	{"(Section E) Pelayanan & Pengetahuan Produk", "Roleplay Product Knowledge: Lakukan tanya jawab singkat antar staf mengenai fitur utama produk agar sigap saat ditanya fungsi dan kelebihan barang oleh pelanggan."},
	{"(Section F) Pengalaman Mencoba Produk", "Standar Fitting Room: Pastikan kamar ganti bersih dari sampah/hanger bekas, cermin tidak bercap tangan, dan staf selalu proaktif menawarkan ukuran atau alternatif warna."},
	{"(Section G) Rekomendasi Pembelian", "Latih Cross-selling: Biasakan staf menyarankan produk pelengkap yang relevan pada setiap interaksi penjualan."},
	{"(Section H) Pembelian & Pembayaran Kasir", "Roleplay SOP Kasir: Lakukan simulasi penawaran produk tambahan, konfirmasi member, input data akurat, hingga salam penutup."},
	{"(Section I) Penampilan Kasir", "Spot Check Kasir: Pastikan kasir memenuhi standar grooming yang sama dengan staf area penjualan."},
	{"(Section J) Kesan Perpisahan", "Roleplay Kesan Terakhir: Latih staf untuk selalu memberikan salam perpisahan yang hangat hingga pelanggan keluar pintu."},
}

// genericAdvice pads a plan up to the MinPlanItems floor when a store has
// almost nothing to fix.
var genericAdvice = []string{
	"Pertahankan tren positif yang ada saat ini. Lanjutkan sesi briefing reguler secara rutin dan berikan apresiasi kepada staf yang berprestasi untuk menjaga konsistensi toko.",
	"Lakukan sinkronisasi selama 10 menit setiap hari sebelum toko buka untuk menyelaraskan target pelayanan pelanggan hari ini.",
	"Minta tim untuk meninjau kembali modul product knowledge terbaru agar lebih percaya diri saat menangani pertanyaan seputar produk.",
}

// sectionGap pairs one section's score with its gap versus the national
// average for the same wave.
type sectionGap struct {
	letter schema.Letter
	score  float64
	gap    float64
}

// DerivePlan builds the ranked remedial action list for one store from its
// latest-wave result, the national aggregate for that wave, and the
// annotated qualitative corpus. Deterministic: the same inputs always
// produce the same ordered list, and every item starts as pending.
func DerivePlan(store *schema.StoreNode, waveKey string, national *schema.WaveAgg, feedback []schema.QualitativeEntry) []schema.ActionPlanItem {
	var res *schema.StoreWaveResult
	if store != nil {
		res = store.Results[waveKey]
	}
	if res == nil || !anyApplicable(res.Sections) {
		return baselinePlan()
	}

	var items []schema.ActionPlanItem
	emitted := make(map[schema.Letter]bool)

	// Priority 1: significant quantitative gaps versus national, worst first.
	gaps := sectionGaps(res, national)
	negative := make([]sectionGap, 0, len(gaps))
	for _, g := range gaps {
		if g.gap < schema.GapThreshold {
			negative = append(negative, g)
		}
	}
	sort.Slice(negative, func(i, j int) bool {
		if negative[i].gap != negative[j].gap {
			return negative[i].gap < negative[j].gap
		}
		return negative[i].letter < negative[j].letter
	})
	for _, g := range negative {
		emitted[g.letter] = true
		items = append(items, schema.ActionPlanItem{
			Category:      schema.CategoryQuantitative,
			FindingSource: fmt.Sprintf("%s (Skor: %.1f, Gap vs Nasional: %.1f)", SectionName(g.letter), g.score, g.gap),
			Action:        fmt.Sprintf("Fokus pada standardisasi prosedur untuk area %s. Lakukan tinjauan ulang panduan operasional nasional bersama tim untuk menutup jarak performa yang kritis ini.", SectionName(g.letter)),
			Status:        schema.PlanPending,
		})
	}

	// Priority 2: recurring negative feedback themes for this wave.
	for _, theme := range negativeThemes(feedback, waveKey) {
		items = append(items, schema.ActionPlanItem{
			Category:      schema.CategoryVoC,
			FindingSource: fmt.Sprintf("Keluhan Berulang: %s (%d penyebutan)", theme.name, theme.count),
			Action:        fmt.Sprintf("Tangani keluhan berulang mengenai %s. Perhatikan hal ini: %s. Diskusikan segera dengan tim untuk evaluasi dan mencegah kejadian serupa.", theme.name, theme.reference()),
			Status:        schema.PlanPending,
		})
	}

	// Priority 3: the lowest-scoring sections below perfection, skipping
	// sections already raised as quantitative gaps.
	lowest := make([]sectionGap, 0, len(gaps))
	for _, g := range gaps {
		if g.score < 100 {
			lowest = append(lowest, g)
		}
	}
	sort.Slice(lowest, func(i, j int) bool {
		if lowest[i].score != lowest[j].score {
			return lowest[i].score < lowest[j].score
		}
		return lowest[i].letter < lowest[j].letter
	})
	if len(lowest) > schema.ParetoCount {
		lowest = lowest[:schema.ParetoCount]
	}
	for _, g := range lowest {
		if emitted[g.letter] {
			continue
		}
		items = append(items, schema.ActionPlanItem{
			Category:      schema.CategoryPareto,
			FindingSource: fmt.Sprintf("%s (Skor: %.1f)", SectionName(g.letter), g.score),
			Action:        fmt.Sprintf("Walaupun performa secara fungsional sudah baik, %s adalah salah satu area dengan skor terbawah di toko ini. Terapkan roleplay atau evaluasi singkat untuk mendorong skor ini lebih mendekati nilai sempurna.", SectionName(g.letter)),
			Status:        schema.PlanPending,
		})
	}

	// Generic filler only when the plan is still below the floor.
	for i := 0; len(items) < schema.MinPlanItems && i < len(genericAdvice); i++ {
		items = append(items, schema.ActionPlanItem{
			Category:      schema.CategoryBestPractice,
			FindingSource: "Perawatan Berkala Toko",
			Action:        genericAdvice[i],
			Status:        schema.PlanPending,
		})
	}

	return rankItems(items)
}

// baselinePlan returns the Rising Star checklist for unassessed stores.
func baselinePlan() []schema.ActionPlanItem {
	items := make([]schema.ActionPlanItem, 0, len(baselineActions))
	for _, b := range baselineActions {
		items = append(items, schema.ActionPlanItem{
			Category:      schema.CategoryBaseline,
			FindingSource: b.source,
			Action:        b.action,
			Status:        schema.PlanPending,
		})
	}
	return rankItems(items)
}

// rankItems assigns sequential ranks and the 4-week execution timeline.
func rankItems(items []schema.ActionPlanItem) []schema.ActionPlanItem {
	for i := range items {
		items[i].Rank = i + 1
		week := i + 1
		if week > 4 {
			week = 4
		}
		items[i].TimelineWeek = week
	}
	return items
}

func anyApplicable(sections map[schema.Letter]schema.SectionScore) bool {
	for _, s := range sections {
		if s.Applicable {
			return true
		}
	}
	return false
}

// sectionGaps computes per-section gaps versus the national mean. A section
// with no national benchmark compares against itself (gap 0), mirroring
// how a store that IS the national sample cannot be behind it.
func sectionGaps(res *schema.StoreWaveResult, national *schema.WaveAgg) []sectionGap {
	gaps := make([]sectionGap, 0, len(res.Sections))
	for _, letter := range schema.AllSections {
		score, ok := res.Sections[letter]
		if !ok || !score.Applicable {
			continue
		}
		natVal, hasNat := national.SectionMean(letter)
		if !hasNat {
			natVal = score.Score
		}
		gaps = append(gaps, sectionGap{letter: letter, score: score.Score, gap: score.Score - natVal})
	}
	return gaps
}

// negTheme is one recurring negative feedback theme with its evidence.
type negTheme struct {
	name     string
	count    int
	examples []string
	insights []string
}

// reference prefers an AI-derived insight over a raw excerpt, truncating
// verbatim text to the excerpt limit.
func (t negTheme) reference() string {
	if len(t.insights) > 0 {
		return fmt.Sprintf("Analisa AI: %q", t.insights[0])
	}
	if len(t.examples) == 0 {
		return ""
	}
	excerpt := t.examples[0]
	if len(excerpt) > schema.ExcerptLimit {
		excerpt = excerpt[:schema.ExcerptLimit] + "..."
	}
	return fmt.Sprintf("Contoh: %q", excerpt)
}

// negativeThemes buckets this wave's negative feedback by theme. Themes
// mentioned at least twice qualify; when none do, the top three most
// frequent themes are taken instead. Sorted by descending count, theme
// name breaking ties.
func negativeThemes(feedback []schema.QualitativeEntry, waveKey string) []negTheme {
	buckets := make(map[string]*negTheme)
	for _, entry := range feedback {
		if entry.WaveKey != waveKey || entry.Sentiment != schema.SentimentNegative {
			continue
		}
		for _, name := range NormalizeThemes(entry) {
			bucket, ok := buckets[name]
			if !ok {
				bucket = &negTheme{name: name}
				buckets[name] = bucket
			}
			bucket.count++
			if len(bucket.examples) < 3 {
				bucket.examples = append(bucket.examples, entry.Text)
			}
			if entry.AIInsight != "" && entry.AIInsight != "N/A" {
				bucket.insights = append(bucket.insights, entry.AIInsight)
			}
		}
	}

	all := make([]negTheme, 0, len(buckets))
	for _, b := range buckets {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].name < all[j].name
	})

	recurring := make([]negTheme, 0, len(all))
	for _, t := range all {
		if t.count >= 2 {
			recurring = append(recurring, t)
		}
	}
	if len(recurring) > 0 {
		return recurring
	}
	if len(all) > 3 {
		all = all[:3]
	}
	return all
}
