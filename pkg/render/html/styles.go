package html

// DefaultStyles is the stylesheet injected ahead of rendered documents. The
// heading pseudo-elements offset anchor jumps so a target heading is not
// hidden under a fixed page header.
const DefaultStyles = `h1::before, h2::before, h3::before, h4::before, h5::before, h6::before {
  display: block;
  content: "";
  margin-top: -3.5em;
  height: 3.5em;
  visibility: hidden;
  pointer-events: none;
}
h1, h2, h3, h4, h5, h6 {
  line-height: 1em;
}
p:first-of-type {
  margin-block-start: 0em;
}
table {
  width: 100%;
  border-collapse: collapse;
  table-layout: fixed;
}
th, td {
  border: 1px solid black;
}
img {
  max-width: 100%;
}
details {
  cursor: pointer;
}
`
