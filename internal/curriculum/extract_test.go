package curriculum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inlineDoc = `PROJETO ALFABETIZAR PREMIUM
PLANO DE ESTUDOS
DISCIPLINAS CARGA HORÁRIA QDE DE AULAS QDE DE PROVAS
LÍNGUA PORTUGUESA 350h 37 3
HISTÓRIA 72h
HISTÓRIA 72h
AVALIAÇÃO
Cada disciplina possui uma prova final.
`

const alternatingDoc = `Curso de Eletrotécnica
MÓDULO 1
DESENHO TÉCNICO
40
MÓDULO 2
REDAÇÃO TÉCNICA
50
CARGA HORÁRIA TOTAL
90
`

const hybridDoc = `CURSO TÉCNICO EM ADMINISTRAÇÃO

DISCIPLINAS
INFORMÁTICA BÁSICA 40h
AVALIAÇÃO
1º SEMESTRE
Gestão Financeira - 60h
Marketing - 40h
2º SEMESTRE
Direito Empresarial - 60h
Logística - 40h
Contabilidade Geral - 80h
`

func TestExtract_InlineTable(t *testing.T) {
	got, err := Extract(inlineDoc)
	require.NoError(t, err)

	assert.Equal(t, "ALFABETIZAR", got.CourseName)
	assert.Equal(t, 1, got.TotalSemesters)
	require.Len(t, got.Subjects, 2)
	assert.Equal(t, Subject{
		Semester:    1,
		SubjectName: "Língua Portuguesa",
		Workload:    350,
		NumClasses:  intPtr(37),
		NumExams:    intPtr(3),
	}, got.Subjects[0])
	assert.Equal(t, Subject{Semester: 1, SubjectName: "História", Workload: 72}, got.Subjects[1])
}

func TestExtract_AlternatingLines(t *testing.T) {
	a, err := Analyze(alternatingDoc)
	require.NoError(t, err)

	assert.Equal(t, FormatAlternatingLines, a.Format)
	assert.Equal(t, "Eletrotécnica", a.Result.CourseName)
	assert.Equal(t, 2, a.Result.TotalSemesters)
	assert.Equal(t, []Subject{
		{Semester: 1, SubjectName: "Desenho Técnico", Workload: 40},
		{Semester: 2, SubjectName: "Redação Técnica", Workload: 50},
	}, a.Result.Subjects)
}

func TestExtract_ArbitrationPrefersMostSubjects(t *testing.T) {
	a, err := Analyze(hybridDoc)
	require.NoError(t, err)

	assert.Equal(t, map[Format]int{
		FormatInlineTable:      1,
		FormatAlternatingLines: 0,
		FormatSemesterSections: 5,
	}, a.Counts())
	assert.Equal(t, FormatSemesterSections, a.Format)
	assert.Equal(t, "TÉCNICO EM ADMINISTRAÇÃO", a.Result.CourseName)
	assert.Equal(t, 2, a.Result.TotalSemesters)
	require.Len(t, a.Result.Subjects, 5)
	assert.Equal(t, "Gestão Financeira", a.Result.Subjects[0].SubjectName)
	assert.Equal(t, "Contabilidade Geral", a.Result.Subjects[4].SubjectName)
}

func TestExtract_TieGoesToEarlierRecognizer(t *testing.T) {
	a, err := Analyze("DISCIPLINAS\nARTES 40h\nAVALIAÇÃO\n1º SEMESTRE\nMúsica - 30h\n")
	require.NoError(t, err)

	assert.Equal(t, FormatInlineTable, a.Format)
	assert.Equal(t, []Subject{{Semester: 1, SubjectName: "Artes", Workload: 40}}, a.Result.Subjects)
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
		kind    Kind
	}{
		{name: "empty", text: "", wantErr: ErrEmptyDocument, kind: KindEmptyDocument},
		{name: "whitespace only", text: "   \n\t \n", wantErr: ErrEmptyDocument, kind: KindEmptyDocument},
		{name: "no subjects", text: "Texto corrido sem nenhuma grade.\n", wantErr: ErrNoSubjects, kind: KindNoSubjects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, got.Subjects)
			assert.Equal(t, tt.kind, KindOf(err))

			f := NewFailure(err)
			require.NotNil(t, f)
			assert.Equal(t, tt.kind, f.Kind)
			assert.NotEmpty(t, f.Message)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	for _, doc := range []string{inlineDoc, alternatingDoc, hybridDoc} {
		first, err := Analyze(doc)
		require.NoError(t, err)
		second, err := Analyze(doc)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestExtract_Invariants(t *testing.T) {
	docs := []string{
		inlineDoc,
		alternatingDoc,
		hybridDoc,
		"1º SEMESTRE\nArtes - 40h\nartes - 40h\nARTES 40h\n2º SEMESTRE\nArtes - 40h\n",
	}

	for _, doc := range docs {
		got, err := Extract(doc)
		require.NoError(t, err)

		seen := map[string]bool{}
		maxSemester := 0
		for _, s := range got.Subjects {
			key := strings.ToLower(s.SubjectName) + "|" + string(rune('0'+s.Semester))
			assert.False(t, seen[key], "duplicate subject %q in semester %d", s.SubjectName, s.Semester)
			seen[key] = true
			if s.Semester > maxSemester {
				maxSemester = s.Semester
			}
			assert.NotEmpty(t, s.SubjectName)
			assert.GreaterOrEqual(t, s.Workload, 0)
		}
		assert.Equal(t, maxSemester, got.TotalSemesters)
	}
}

func TestRecognizers_RejectHeaderLines(t *testing.T) {
	inputs := [][]string{
		{"DISCIPLINAS"},
		{"CARGA HORÁRIA"},
		{"DISCIPLINAS", "CARGA HORÁRIA", "10"},
		{"MÓDULO 1", "DISCIPLINAS", "CARGA HORÁRIA", "10"},
		{"ESTRUTURA CURRICULAR", "CARGA HORÁRIA", "DISCIPLINAS"},
		{"1º SEMESTRE", "DISCIPLINAS", "CARGA HORÁRIA"},
	}

	for _, r := range Recognizers() {
		for _, lines := range inputs {
			for _, s := range r.Recognize(lines) {
				name := strings.ToLower(s.SubjectName)
				assert.NotEqual(t, "disciplinas", name, "format %s", r.Format())
				assert.NotEqual(t, "carga horária", name, "format %s", r.Format())
			}
		}
	}
}

func TestArbitrate(t *testing.T) {
	one := []Subject{{Semester: 1, SubjectName: "Artes"}}
	two := []Subject{{Semester: 1, SubjectName: "Artes"}, {Semester: 1, SubjectName: "Música"}}

	tests := []struct {
		name       string
		candidates []Candidate
		want       Format
		ok         bool
	}{
		{
			name:       "all empty",
			candidates: []Candidate{{Format: FormatInlineTable}, {Format: FormatAlternatingLines}, {Format: FormatSemesterSections}},
			ok:         false,
		},
		{
			name:       "largest wins",
			candidates: []Candidate{{Format: FormatInlineTable, Subjects: one}, {Format: FormatAlternatingLines, Subjects: two}},
			want:       FormatAlternatingLines,
			ok:         true,
		},
		{
			name:       "tie keeps priority",
			candidates: []Candidate{{Format: FormatInlineTable}, {Format: FormatAlternatingLines, Subjects: two}, {Format: FormatSemesterSections, Subjects: two}},
			want:       FormatAlternatingLines,
			ok:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Arbitrate(tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Format)
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []Subject{
		{Semester: 1, SubjectName: "Artes", Workload: 40},
		{Semester: 2, SubjectName: "Artes", Workload: 30},
		{Semester: 1, SubjectName: "ARTES", Workload: 10},
		{Semester: 1, SubjectName: "Música", Workload: 20},
	}

	got := Dedupe(in)
	assert.Equal(t, []Subject{
		{Semester: 1, SubjectName: "Artes", Workload: 40},
		{Semester: 2, SubjectName: "Artes", Workload: 30},
		{Semester: 1, SubjectName: "Música", Workload: 20},
	}, got)
}

func TestTotalSemesters(t *testing.T) {
	assert.Equal(t, 1, TotalSemesters(nil))
	assert.Equal(t, 4, TotalSemesters([]Subject{{Semester: 2}, {Semester: 4}, {Semester: 1}}))
}

func TestUnavailable(t *testing.T) {
	assert.Nil(t, Unavailable(nil))

	err := Unavailable(assert.AnError)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, KindSourceUnavailable, KindOf(err))
	assert.Same(t, err, Unavailable(err))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
}
