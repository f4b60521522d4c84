package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
	"github.com/klabast/wb-services/programacao/internal/week"
)

func testWeek(activities ...schedule.Activity) Week {
	return Week{
		Window:     week.WindowFor(time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)),
		Activities: schedule.SortActivities(activities),
	}
}

func sampleActivities() []schedule.Activity {
	group := "Grupo Norte"
	return []schedule.Activity{
		{ID: "a1", Day: schedule.Monday, Time: "09:00", Location: "Salão do Reino - Janga", Leader: "Atos"},
		{ID: "a2", Day: schedule.Wednesday, Time: "19:30", Location: "Zoom, online", Leader: "Daniel", Group: &group},
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Semana 13-19 de outubro", "programacao-Semana-13-19-de-outubro.png"},
		{"Semana 29 de setembro - 5 de outubro", "programacao-Semana-29-de-setembro---5-de-outubro.png"},
		{"Semana\t1-7 de dezembro", "programacao-Semana-1-7 de-dezembro.png"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FileName(tt.label, FormatPNG))
	}
}

func TestICS(t *testing.T) {
	body := string(ICS(testWeek(sampleActivities()...), ICSOptions{ReminderMinutes: 90}))

	for _, field := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"BEGIN:VEVENT",
		"END:VEVENT",
		"END:VCALENDAR",
		"UID:a1@programacao",
		"DTSTART;TZID=America/Recife:20251013T090000",
		"DTEND;TZID=America/Recife:20251013T100000",
		"DTSTART;TZID=America/Recife:20251015T193000",
		"SUMMARY:Zoom\\, online (Grupo Norte)",
		"DESCRIPTION:Dirigente: Daniel\\nGrupo: Grupo Norte",
		"TRIGGER:-PT1H30M",
	} {
		require.Contains(t, body, field)
	}
	require.Equal(t, 2, strings.Count(body, "BEGIN:VALARM"))
	require.True(t, strings.HasSuffix(body, "END:VCALENDAR\r\n"))
}

func TestICSDefinesTimezone(t *testing.T) {
	body := string(ICS(testWeek(sampleActivities()...), ICSOptions{}))

	require.Contains(t, body, "BEGIN:VTIMEZONE\r\nTZID:"+ICSTimezone+"\r\n")
	require.Contains(t, body, "TZOFFSETTO:-0300")
	require.Less(t, strings.Index(body, "END:VTIMEZONE"), strings.Index(body, "BEGIN:VEVENT"))
}

func TestICSFoldsLongLines(t *testing.T) {
	group := "Grupo de Campo da Congregação Central com Nome Muito Comprido"
	long := schedule.Activity{
		ID:       "long",
		Day:      schedule.Friday,
		Time:     "18:00",
		Location: "Salão do Reino - Central Abreu e Lima, entrada pela lateral",
		Leader:   "Gerfeson",
		Group:    &group,
	}
	body := string(ICS(testWeek(long), ICSOptions{ReminderMinutes: 15}))

	for _, line := range strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n") {
		require.LessOrEqual(t, len(line), 75, line)
		require.True(t, utf8.ValidString(line), line)
	}

	unfolded := strings.ReplaceAll(body, "\r\n ", "")
	require.Contains(t, unfolded, "SUMMARY:"+escapeText(long.Location+" ("+group+")")+"\r\n")
}

func TestICSWithoutReminders(t *testing.T) {
	body := string(ICS(testWeek(sampleActivities()...), ICSOptions{}))
	require.NotContains(t, body, "BEGIN:VALARM")
}

func TestICSIsStable(t *testing.T) {
	wk := testWeek(sampleActivities()...)
	require.Equal(t, ETag(ICS(wk, ICSOptions{})), ETag(ICS(wk, ICSOptions{})))
}

func TestCSV(t *testing.T) {
	data, err := CSV(testWeek(sampleActivities()...))
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, CSVHeader, rows[0])
	require.Equal(t, []string{"Segunda-feira", "09:00", "Salão do Reino - Janga", "Atos", ""}, rows[1])
	require.Equal(t, []string{"Quarta-feira", "19:30", "Zoom, online", "Daniel", "Grupo Norte"}, rows[2])
}

func TestJSON(t *testing.T) {
	data, err := JSON(testWeek(sampleActivities()...))
	require.NoError(t, err)

	var out struct {
		Week struct {
			Label string `json:"label"`
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"week"`
		Activities []struct {
			ID    string `json:"id"`
			Date  string `json:"date"`
			Night bool   `json:"night"`
		} `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "Semana 13-19 de outubro", out.Week.Label)
	require.Equal(t, "2025-10-13", out.Week.Start)
	require.Equal(t, "2025-10-19", out.Week.End)
	require.Len(t, out.Activities, 2)
	require.Equal(t, "2025-10-13", out.Activities[0].Date)
	require.False(t, out.Activities[0].Night)
	require.Equal(t, "2025-10-15", out.Activities[1].Date)
	require.True(t, out.Activities[1].Night)
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(testWeek(sampleActivities()...))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Data", rows[0][0])
	require.Equal(t, "Dirigente", rows[0][4])
	require.Equal(t, "2025-10-15", rows[2][0])
	require.Equal(t, "Grupo Norte", rows[2][5])
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render("pdf", testWeek())
	require.Error(t, err)

	_, ok := ContentType("pdf")
	require.False(t, ok)
}

func TestETag(t *testing.T) {
	a := ETag([]byte("one"))
	require.Equal(t, a, ETag([]byte("one")))
	require.NotEqual(t, a, ETag([]byte("two")))
	require.True(t, strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`))
}

func TestSharePayload(t *testing.T) {
	share := SharePayload("Semana 13-19 de outubro", []byte{1, 2, 3})
	require.Equal(t, "Programação da Semana", share.Title)
	require.Equal(t, "Confira a programação para a Semana 13-19 de outubro", share.Text)
	require.Equal(t, "programacao-Semana-13-19-de-outubro.png", share.FileName)
	require.Equal(t, "image/png", share.ContentType)
	require.Equal(t, []byte{1, 2, 3}, share.Data)
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestPNGDimensions(t *testing.T) {
	data, err := PNG(testWeek(sampleActivities()...), PNGOptions{})
	require.NoError(t, err)

	b := decodePNG(t, data).Bounds()
	require.Equal(t, baseWidth*DefaultScale, b.Dx())
	require.Equal(t, baseHeight*DefaultScale, b.Dy())

	// A4 portrait within a pixel of rounding.
	require.InDelta(t, 297.0/210.0, float64(b.Dy())/float64(b.Dx()), 0.002)
}

func TestPNGHeaderAndBackground(t *testing.T) {
	data, err := PNG(testWeek(), PNGOptions{Scale: 1})
	require.NoError(t, err)
	img := decodePNG(t, data)

	r, g, b, _ := img.At(2, 2).RGBA()
	require.Equal(t, uint32(colorHeader.R)<<8|uint32(colorHeader.R), r)
	require.Equal(t, uint32(colorHeader.G)<<8|uint32(colorHeader.G), g)
	require.Equal(t, uint32(colorHeader.B)<<8|uint32(colorHeader.B), b)

	r, g, b, _ = img.At(baseWidth-2, baseHeight-2).RGBA()
	require.Equal(t, uint32(0xFFFF), r&g&b)
}

func TestPNGEmbedsDataURLImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	red := color.RGBA{R: 0xFF, A: 0xFF}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, red)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	data, err := PNG(testWeek(schedule.Activity{
		ID: "x", Day: schedule.Monday, Time: "09:00", Location: "Centro", ImageURL: url,
	}), PNGOptions{Scale: 1})
	require.NoError(t, err)
	img := decodePNG(t, data)

	// Center of the first card's image area.
	cardW := (baseWidth - 2*margin - (gridColumns-1)*gridGap) / gridColumns
	x := margin + cardW/2
	y := headerHeight + margin + 40
	r, g, b, _ := img.At(x, y).RGBA()
	require.Greater(t, r, uint32(0xF000))
	require.Less(t, g, uint32(0x1000))
	require.Less(t, b, uint32(0x1000))
}

func TestDecodeImageSkipsOversizedDataURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, sources.MaxImageDimension+1, 2))))
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	require.Nil(t, decodeImage(url))

	buf.Reset()
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	url = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	require.NotNil(t, decodeImage(url))
}

func TestPNGScaleBounds(t *testing.T) {
	_, err := PNG(testWeek(), PNGOptions{Scale: MaxScale + 1})
	require.ErrorIs(t, err, ErrScale)
	_, err = PNG(testWeek(), PNGOptions{Scale: -1})
	require.ErrorIs(t, err, ErrScale)
}

func TestPNGShowsOnlyPreview(t *testing.T) {
	var acts []schedule.Activity
	for i := 0; i < 12; i++ {
		acts = append(acts, schedule.Activity{
			ID:       string(rune('a' + i)),
			Day:      schedule.Days[i%7],
			Time:     "10:00",
			Location: "Local",
		})
	}
	data, err := PNG(testWeek(acts...), PNGOptions{Scale: 1})
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestWrapAndTruncate(t *testing.T) {
	require.NoError(t, loadFonts())
	c := &canvas{scale: 1}
	defer c.close()
	face, err := c.face(false, 13)
	require.NoError(t, err)

	require.Equal(t, "curto", truncate(face, "curto", 200))
	short := truncate(face, strings.Repeat("palavra ", 20), 100)
	require.True(t, strings.HasSuffix(short, "..."))

	lines := wrap(face, strings.Repeat("palavra ", 30), 120, 2)
	require.Len(t, lines, 2)
	require.True(t, strings.HasSuffix(lines[1], "..."))
}

func TestICSSubscription(t *testing.T) {
	body := string(ICS(testWeek(sampleActivities()...), ICSOptions{Subscription: true, ReminderMinutes: 30}))

	require.Contains(t, body, "METHOD:PUBLISH")
	require.Contains(t, body, "X-PUBLISHED-TTL:PT1H")
	require.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	require.NotContains(t, body, "BEGIN:VALARM")
}
