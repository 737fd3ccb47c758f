package i18n

var ptBRMessages = map[Code]string{
	CodeRollNumberOutOfRange: "O número da rolagem {{.Number}} deve estar entre 1 e {{.Max}}.",
	CodeRollEmbargoMissing:   "Uma rolagem precisa de um horário de liberação.",
	CodeSquareOutOfRange:     "A casa {{.Square}} não está no tabuleiro.",
	CodeWindowInverted:       "A janela ativa deve terminar depois de começar.",
	CodeQueryTimeMissing:     "O horário da consulta é obrigatório.",
	CodeQueryTimeInvalid:     "O horário da consulta não é válido.",
	CodeNotFound:             "O registro solicitado não foi encontrado.",
	CodeSnapshotUnstable:     "O tabuleiro mudou durante a leitura. Tente novamente.",
}
