// Command vidscribe turns YouTube videos into readable HTML articles.
// It can run one-shot from the command line (generate), serve an HTTP
// API (serve), and browse the local article database (articles).
package main
