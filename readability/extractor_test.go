package readability_test

import (
	"testing"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const decisionPage = `<!DOCTYPE html>
<html>
<head><title>Sentencia N° 45 - Sala Político Administrativa</title></head>
<body>
<nav><a href="/">Inicio</a> | <a href="/decisiones">Decisiones</a></nav>
<aside class="sidebar">Enlaces de interés</aside>
<article>
<h1>SALA POLÍTICO ADMINISTRATIVA</h1>
<p>Mediante escrito presentado el 5 de febrero de 2024, la representación judicial de la República interpuso recurso de nulidad contra el acto administrativo dictado por el Ministerio.</p>
<p>Examinadas las actas procesales, esta Sala observa que el recurso fue ejercido dentro del lapso legal y cumple los requisitos de admisibilidad previstos en la ley.</p>
<p>En virtud de lo anterior, esta Sala declara CON LUGAR el recurso de nulidad interpuesto y anula el acto impugnado.</p>
</article>
<footer>Copyright Tribunal Supremo de Justicia</footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, legalfeed.EINVALID, legalfeed.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(decisionPage)

	require.NoError(t, err)
	assert.Contains(t, result.Title, "Sentencia")
}

func TestExtractor_KeepsDecisionText(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(decisionPage)

	require.NoError(t, err)
	assert.Contains(t, result.Text, "recurso de nulidad")
	assert.Contains(t, result.Text, "declara CON LUGAR")
}

func TestExtractor_RemovesBoilerplate(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(decisionPage)

	require.NoError(t, err)
	assert.NotContains(t, result.Text, "Copyright")
	assert.NotContains(t, result.Text, "Enlaces de interés")
}

func TestExtractor_ReturnsPlainText(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor().Extract(decisionPage)

	require.NoError(t, err)
	assert.NotContains(t, result.Text, "<p>")
	assert.NotContains(t, result.Text, "\n\n")
}
