package fetch

import (
	"bufio"
	"fmt"
	"io"
)

// AwaitOperator blocks until the operator confirms the page is ready,
// typically after clearing an anti-automation challenge by hand in the
// browser window. There is deliberately no timeout: the scrape is a
// supervised batch job and proceeding early would capture the challenge
// page instead of the listings.
func AwaitOperator(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "[scout] Operator action required - solve the challenge in the browser, then press Enter to continue... ")
	bufio.NewReader(in).ReadString('\n')
}
